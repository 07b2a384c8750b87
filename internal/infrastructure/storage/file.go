package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vitos/hyper_position_bot/internal/domain"
)

// FileAddressStore persists the address list as a JSON array of strings,
// rewritten in full on every save. Writes go through a temp file and an
// atomic rename so a crash never leaves a half-written list.
type FileAddressStore struct {
	path string
}

func NewFileAddressStore(path string) *FileAddressStore {
	return &FileAddressStore{path: path}
}

func (s *FileAddressStore) Load(_ context.Context) ([]domain.Address, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	addresses := make([]domain.Address, 0, len(raw))
	for _, r := range raw {
		addresses = append(addresses, domain.Address(r))
	}
	return addresses, nil
}

func (s *FileAddressStore) Save(_ context.Context, addresses []domain.Address) error {
	raw := make([]string, 0, len(addresses))
	for _, a := range addresses {
		raw = append(raw, a.String())
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode addresses: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

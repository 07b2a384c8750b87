package usecase

import (
	"context"
	"sync"

	"github.com/vitos/hyper_position_bot/internal/domain"
)

// AddressRegistry is the shared list of monitored addresses. Both loops
// touch it concurrently: the monitor reads a snapshot each cycle, the
// command processor mutates it. Every mutation persists the full list
// before the in-memory state changes, so memory and storage never
// diverge.
type AddressRegistry struct {
	mu        sync.Mutex
	store     domain.AddressStore
	addresses []domain.Address
}

// NewAddressRegistry loads the persisted list into memory.
func NewAddressRegistry(ctx context.Context, store domain.AddressStore) (*AddressRegistry, error) {
	addresses, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &AddressRegistry{store: store, addresses: addresses}, nil
}

// List returns a copy of the current address list, never a live slice.
func (r *AddressRegistry) List() []domain.Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Address, len(r.addresses))
	copy(out, r.addresses)
	return out
}

func (r *AddressRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.addresses)
}

// Add validates raw, appends it and persists the new list. Returns
// domain.ErrInvalidAddress, domain.ErrDuplicateAddress, or a
// PersistenceError; on persistence failure memory stays unchanged.
func (r *AddressRegistry) Add(ctx context.Context, raw string) (domain.Address, error) {
	address, err := domain.ParseAddress(raw)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.addresses {
		if existing == address {
			return "", domain.ErrDuplicateAddress
		}
	}

	next := make([]domain.Address, 0, len(r.addresses)+1)
	next = append(next, r.addresses...)
	next = append(next, address)

	if err := r.store.Save(ctx, next); err != nil {
		return "", &domain.PersistenceError{Err: err}
	}
	r.addresses = next
	return address, nil
}

// RemoveAt removes the address at the zero-based index of the current
// listing order, persists, and returns the removed address.
func (r *AddressRegistry) RemoveAt(ctx context.Context, index int) (domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.addresses) {
		return "", domain.ErrIndexOutOfRange
	}
	removed := r.addresses[index]

	next := make([]domain.Address, 0, len(r.addresses)-1)
	next = append(next, r.addresses[:index]...)
	next = append(next, r.addresses[index+1:]...)

	if err := r.store.Save(ctx, next); err != nil {
		return "", &domain.PersistenceError{Err: err}
	}
	r.addresses = next
	return removed, nil
}

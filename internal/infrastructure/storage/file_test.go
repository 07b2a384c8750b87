package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/hyper_position_bot/internal/domain"
)

func TestFileAddressStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	store := NewFileAddressStore(path)

	addresses := []domain.Address{
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}
	require.NoError(t, store.Save(context.Background(), addresses))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addresses, loaded)
}

func TestFileAddressStoreMissingFileIsEmptyList(t *testing.T) {
	store := NewFileAddressStore(filepath.Join(t.TempDir(), "nope.json"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileAddressStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	store := NewFileAddressStore(path)

	require.NoError(t, store.Save(context.Background(), []domain.Address{
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}))
	require.NoError(t, store.Save(context.Background(), []domain.Address{
		"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}, loaded)

	// No leftover temp file after a successful save.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileAddressStoreSaveEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	store := NewFileAddressStore(path)

	require.NoError(t, store.Save(context.Background(), nil))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileAddressStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileAddressStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

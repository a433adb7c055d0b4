package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(context.Background(), config.StorageConfig{DSN: "file::memory:?cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	_, err := store.Get(ctx, "cart")
	require.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "cart", []byte(`[{"name":"T-Shirt","price":500}]`)))
	val, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"T-Shirt","price":500}]`, string(val))

	require.NoError(t, store.Delete(ctx, "cart"))
	_, err = store.Get(ctx, "cart")
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestSetOverwritesExistingValue(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.Set(ctx, "wishlist_alice", []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "wishlist_alice", []byte(`[{"name":"Cap"}]`)))

	val, err := store.Get(ctx, "wishlist_alice")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Cap"}]`, string(val))
}

func TestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.Set(ctx, "cart", []byte(`["anonymous"]`)))
	require.NoError(t, store.Set(ctx, "cart_alice", []byte(`["alice"]`)))

	anon, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	alice, err := store.Get(ctx, "cart_alice")
	require.NoError(t, err)
	assert.NotEqual(t, string(anon), string(alice))
}

func TestPersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storefront.db")

	store, err := New(ctx, config.StorageConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "orders", []byte(`[{"id":"ORD-1"}]`)))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, config.StorageConfig{Path: path})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	val, err := reopened.Get(ctx, "orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"ORD-1"}]`, string(val))
}

func TestNewRequiresPathOrDSN(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrKeyNotFound))
}

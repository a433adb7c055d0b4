// Package storage defines the durable key-value surface the engine persists
// through. Backends behave like browser local storage: plain string keys,
// opaque byte values, full-value overwrite on every write.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
)

// ErrKeyNotFound is returned by Get when no value exists under the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is the persistence surface shared by all backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadSlice reads and decodes the JSON array persisted under key. A missing
// key yields an empty slice and no error. A malformed payload yields an empty
// slice and a CodeDecode error so callers can log the corruption and carry on.
func LoadSlice[T any](ctx context.Context, store Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading collection").WithDetails(key)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding collection").WithDetails(key)
	}
	return items, nil
}

// SaveSlice encodes items as a JSON array and overwrites the value under key.
func SaveSlice[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding collection").WithDetails(key)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing collection").WithDetails(key)
	}
	return nil
}

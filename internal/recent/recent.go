// Package recent implements the bounded recently-viewed ring: most recent
// first, deduplicated by name, oldest evicted past capacity. Re-viewing an
// item already in the ring is a no-op; first-view order is sticky.
package recent

import (
	"context"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
)

// BaseKey is the unnamespaced storage key for the recently-viewed collection.
const BaseKey = "recentlyViewed"

// DefaultCapacity bounds the ring when configuration does not say otherwise.
const DefaultCapacity = 5

// Entry is a viewed product, stored with its display price for re-rendering
// the detail panel.
type Entry struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// RingParams groups dependencies for the recently-viewed ring.
type RingParams struct {
	Store    storage.Store
	Keys     func(base string) string
	Log      *logger.Logger
	Capacity int
}

// Ring owns the recently-viewed entries for the current namespace.
type Ring struct {
	store    storage.Store
	keys     func(string) string
	log      *logger.Logger
	capacity int
	entries  []Entry
}

// NewRing loads the ring persisted under the current namespace.
func NewRing(ctx context.Context, params RingParams) (*Ring, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key resolver is required")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	capacity := params.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Ring{store: params.Store, keys: params.Keys, log: params.Log, capacity: capacity}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the collection from storage under the current namespace.
// Corrupt data is logged and degrades to an empty ring; only storage access
// failures are returned.
func (r *Ring) Reload(ctx context.Context) error {
	entries, err := storage.LoadSlice[Entry](ctx, r.store, r.keys(BaseKey))
	if err != nil {
		r.log.Error(r.log.WithCollection(ctx, BaseKey), "loading recently viewed, starting empty", err)
		r.entries = nil
		if pkgerrors.HasCode(err, pkgerrors.CodeDecode) {
			return nil
		}
		return err
	}
	if len(entries) > r.capacity {
		entries = entries[:r.capacity]
	}
	r.entries = entries
	return nil
}

// RecordView inserts the entry at the front unless its name is already in the
// ring, evicting the oldest entry past capacity. Persists on change.
func (r *Ring) RecordView(ctx context.Context, entry Entry) error {
	for _, existing := range r.entries {
		if existing.Name == entry.Name {
			return nil
		}
	}
	r.entries = append([]Entry{entry}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
	return r.persist(ctx)
}

// RemoveAt drops the entry at index and persists; remaining order is kept.
func (r *Ring) RemoveAt(ctx context.Context, index int) error {
	if index < 0 || index >= len(r.entries) {
		return pkgerrors.New(pkgerrors.CodeValidation, "recently-viewed index out of range").WithDetails(index)
	}
	r.entries = append(r.entries[:index], r.entries[index+1:]...)
	return r.persist(ctx)
}

// Entries returns a copy, most recently viewed first.
func (r *Ring) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Ring) persist(ctx context.Context) error {
	return storage.SaveSlice(ctx, r.store, r.keys(BaseKey), r.entries)
}

// Package wishlist implements the name-deduplicated wishlist with toggle
// semantics and move-to-cart. Entries keep the display-formatted price the
// storefront rendered; it is parsed to a numeric amount only when an entry
// moves into the cart.
package wishlist

import (
	"context"

	"github.com/khusimart/storefront/internal/cart"
	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/money"
	"github.com/khusimart/storefront/pkg/storage"
)

// BaseKey is the unnamespaced storage key for the wishlist collection.
const BaseKey = "wishlist"

// Entry is a wishlisted product. Price is the display string, currency symbol
// and all, exactly as listed.
type Entry struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// CartAdder is the cart surface MoveToCart needs.
type CartAdder interface {
	Add(ctx context.Context, item cart.LineItem) error
}

// SetParams groups dependencies for the wishlist set.
type SetParams struct {
	Store storage.Store
	Keys  func(base string) string
	Log   *logger.Logger
}

// Set owns the wishlist entries for the current namespace.
type Set struct {
	store   storage.Store
	keys    func(string) string
	log     *logger.Logger
	entries []Entry
}

// NewSet loads the wishlist persisted under the current namespace.
func NewSet(ctx context.Context, params SetParams) (*Set, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key resolver is required")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	s := &Set{store: params.Store, keys: params.Keys, log: params.Log}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the collection from storage under the current namespace.
// Corrupt data is logged and degrades to an empty wishlist; only storage
// access failures are returned.
func (s *Set) Reload(ctx context.Context) error {
	entries, err := storage.LoadSlice[Entry](ctx, s.store, s.keys(BaseKey))
	if err != nil {
		s.log.Error(s.log.WithCollection(ctx, BaseKey), "loading wishlist, starting empty", err)
		s.entries = nil
		if pkgerrors.HasCode(err, pkgerrors.CodeDecode) {
			return nil
		}
		return err
	}
	s.entries = entries
	return nil
}

// Toggle adds the entry when its name is absent and removes it when present.
// The returned flag reports whether the entry ended up added.
func (s *Set) Toggle(ctx context.Context, entry Entry) (bool, error) {
	for i, existing := range s.entries {
		if existing.Name == entry.Name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			if err := s.persist(ctx); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	s.entries = append(s.entries, entry)
	if err := s.persist(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// RemoveAt drops the entry at index and persists.
func (s *Set) RemoveAt(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.entries) {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist index out of range").WithDetails(index)
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return s.persist(ctx)
}

// MoveToCart parses the entry's display price into a numeric amount, adds the
// product to the cart, then removes it from the wishlist.
func (s *Set) MoveToCart(ctx context.Context, index int, adder CartAdder) error {
	if index < 0 || index >= len(s.entries) {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist index out of range").WithDetails(index)
	}
	entry := s.entries[index]
	price, err := money.ParsePrice(entry.Price)
	if err != nil {
		return err
	}
	if err := adder.Add(ctx, cart.LineItem{Name: entry.Name, Price: price, Image: entry.Image}); err != nil {
		return err
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return s.persist(ctx)
}

// Contains reports whether an entry with the given name is wishlisted. The
// storefront uses it to render active heart icons.
func (s *Set) Contains(name string) bool {
	for _, entry := range s.entries {
		if entry.Name == name {
			return true
		}
	}
	return false
}

// Entries returns a copy of the wishlist in insertion order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns the current membership set, most useful for change events.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		names = append(names, entry.Name)
	}
	return names
}

func (s *Set) persist(ctx context.Context) error {
	return storage.SaveSlice(ctx, s.store, s.keys(BaseKey), s.entries)
}

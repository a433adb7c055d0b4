// Package cart implements the cart ledger: an ordered list of line items with
// derived subtotal and discounted total. Re-adding a product appends a second
// independent line; there is no quantity merging.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
)

// BaseKey is the unnamespaced storage key for the cart collection.
const BaseKey = "cart"

// LineItem is one unit entry in the ledger, stored with the numeric price it
// was added at.
type LineItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// LedgerParams groups dependencies for the cart ledger.
type LedgerParams struct {
	Store storage.Store
	Keys  func(base string) string
	Log   *logger.Logger
}

// Ledger owns the cart line items for the current namespace. Every mutation
// persists synchronously before returning.
type Ledger struct {
	store storage.Store
	keys  func(string) string
	log   *logger.Logger
	items []LineItem
}

// NewLedger loads the cart persisted under the current namespace. Corrupt
// stored data degrades to an empty cart and is logged.
func NewLedger(ctx context.Context, params LedgerParams) (*Ledger, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key resolver is required")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	l := &Ledger{store: params.Store, keys: params.Keys, log: params.Log}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads the collection from storage under the current namespace.
// Used after an identity switch. Corrupt data is logged and degrades to an
// empty cart; only storage access failures are returned.
func (l *Ledger) Reload(ctx context.Context) error {
	items, err := storage.LoadSlice[LineItem](ctx, l.store, l.keys(BaseKey))
	if err != nil {
		l.log.Error(l.log.WithCollection(ctx, BaseKey), "loading cart, starting empty", err)
		l.items = nil
		if pkgerrors.HasCode(err, pkgerrors.CodeDecode) {
			return nil
		}
		return err
	}
	l.items = items
	return nil
}

// Add appends a line item and persists.
func (l *Ledger) Add(ctx context.Context, item LineItem) error {
	l.items = append(l.items, item)
	return l.persist(ctx)
}

// Remove drops the line at index and persists. Out-of-range indexes are
// validation errors and leave the ledger untouched.
func (l *Ledger) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(l.items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart index out of range").WithDetails(index)
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return l.persist(ctx)
}

// Clear empties the ledger and persists.
func (l *Ledger) Clear(ctx context.Context) error {
	l.items = nil
	return l.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the number of line items.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Subtotal sums line item prices at full precision.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range l.items {
		sum = sum.Add(item.Price)
	}
	return sum
}

// Total applies the fractional discount to the subtotal and rounds to two
// places for display. Only presentation rounds; stored prices keep full
// precision.
func (l *Ledger) Total(discount decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discount)
	return l.Subtotal().Mul(factor).Round(2)
}

func (l *Ledger) persist(ctx context.Context) error {
	return storage.SaveSlice(ctx, l.store, l.keys(BaseKey), l.items)
}

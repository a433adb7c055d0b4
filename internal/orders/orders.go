// Package orders keeps the append-only archive of finalized carts. Orders
// are immutable snapshots prepended at checkout, most recent first.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khusimart/storefront/internal/cart"
	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/money"
	"github.com/khusimart/storefront/pkg/storage"
)

// BaseKey is the unnamespaced storage key for the order archive.
const BaseKey = "orders"

// dateLayout matches how the storefront prints order dates.
const dateLayout = "2 Jan 2006"

// Order is an immutable snapshot of a checked-out cart. Total is the
// discount-applied amount, formatted to two decimal places.
type Order struct {
	ID    string          `json:"id"`
	Date  string          `json:"date"`
	Items []cart.LineItem `json:"items"`
	Total string          `json:"total"`
}

// NewOrder builds the checkout snapshot. The ID is time-derived with a short
// random suffix so two checkouts in the same millisecond stay distinct.
func NewOrder(items []cart.LineItem, total decimal.Decimal, now time.Time) Order {
	suffix, _, _ := strings.Cut(uuid.NewString(), "-")
	snapshot := make([]cart.LineItem, len(items))
	copy(snapshot, items)
	return Order{
		ID:    fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix),
		Date:  now.Format(dateLayout),
		Items: snapshot,
		Total: money.Format(total),
	}
}

// ArchiveParams groups dependencies for the order archive.
type ArchiveParams struct {
	Store storage.Store
	Keys  func(base string) string
	Log   *logger.Logger
}

// Archive owns the order history for the current namespace.
type Archive struct {
	store  storage.Store
	keys   func(string) string
	log    *logger.Logger
	orders []Order
}

// NewArchive loads the archive persisted under the current namespace.
func NewArchive(ctx context.Context, params ArchiveParams) (*Archive, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key resolver is required")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	a := &Archive{store: params.Store, keys: params.Keys, log: params.Log}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload re-reads the archive from storage under the current namespace.
// Corrupt data is logged and degrades to an empty archive; only storage
// access failures are returned.
func (a *Archive) Reload(ctx context.Context) error {
	orders, err := storage.LoadSlice[Order](ctx, a.store, a.keys(BaseKey))
	if err != nil {
		a.log.Error(a.log.WithCollection(ctx, BaseKey), "loading orders, starting empty", err)
		a.orders = nil
		if pkgerrors.HasCode(err, pkgerrors.CodeDecode) {
			return nil
		}
		return err
	}
	a.orders = orders
	return nil
}

// Record prepends the order and persists. There is no edit or delete.
func (a *Archive) Record(ctx context.Context, order Order) error {
	a.orders = append([]Order{order}, a.orders...)
	if err := storage.SaveSlice(ctx, a.store, a.keys(BaseKey), a.orders); err != nil {
		return err
	}
	a.log.Info(a.log.WithOrderID(ctx, order.ID), "order recorded")
	return nil
}

// All returns a copy of the archive, most recent first.
func (a *Archive) All() []Order {
	out := make([]Order, len(a.orders))
	copy(out, a.orders)
	return out
}

// Len reports the number of archived orders.
func (a *Archive) Len() int {
	return len(a.orders)
}

package storefront

import (
	"github.com/khusimart/storefront/internal/orders"
	"github.com/khusimart/storefront/internal/recent"
)

// Events is the sink the presentation layer registers to react to state
// changes. The engine emits after every successful mutation; implementations
// must not call back into the engine from inside a handler.
type Events interface {
	// CartChanged fires with the new line count and discounted display total.
	CartChanged(count int, total string)
	// WishlistChanged fires with the new membership set of product names.
	WishlistChanged(names []string)
	// RecentChanged fires with the new most-recent-first view list.
	RecentChanged(entries []recent.Entry)
	// PromoResult reports the outcome of a promo code submission.
	PromoResult(applied bool, message string)
	// OrderPlaced fires once per successful checkout.
	OrderPlaced(order orders.Order)
	// CheckoutRejected fires when checkout is refused, e.g. on an empty cart.
	CheckoutRejected(reason string)
}

// NopEvents discards every event. It is the default sink.
type NopEvents struct{}

func (NopEvents) CartChanged(int, string)      {}
func (NopEvents) WishlistChanged([]string)     {}
func (NopEvents) RecentChanged([]recent.Entry) {}
func (NopEvents) PromoResult(bool, string)     {}
func (NopEvents) OrderPlaced(orders.Order)     {}
func (NopEvents) CheckoutRejected(string)      {}

// Package storefront is the local commerce state engine behind a storefront
// page: cart, wishlist, recently-viewed items, promo discounts and order
// history, persisted per shopper in a local key-value store. The page
// rendering layer calls the engine's methods on user actions and re-renders
// from the snapshots and events it gets back; the engine never touches the
// DOM side of the world.
//
// Everything runs synchronously on the caller's event loop: each operation
// mutates state, persists, emits its events and returns before the next one
// starts, so no locking is needed inside the engine.
package storefront

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/khusimart/storefront/internal/cart"
	"github.com/khusimart/storefront/internal/catalog"
	"github.com/khusimart/storefront/internal/orders"
	"github.com/khusimart/storefront/internal/promo"
	"github.com/khusimart/storefront/internal/recent"
	"github.com/khusimart/storefront/internal/session"
	"github.com/khusimart/storefront/internal/wishlist"
	"github.com/khusimart/storefront/pkg/config"
	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/money"
	"github.com/khusimart/storefront/pkg/storage"
)

// darkModeKey is the global, non-namespaced entry for the theme preference.
const darkModeKey = "darkMode"

// Params groups the engine's dependencies.
type Params struct {
	Store   storage.Store
	Catalog *catalog.Catalog
	Config  *config.Config
	Logger  *logger.Logger
	Events  Events
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Engine owns the four persisted collections for the duration of a page
// session and is the only writer to them. Construct one per session with New.
type Engine struct {
	store    storage.Store
	catalog  *catalog.Catalog
	log      *logger.Logger
	events   Events
	now      func() time.Time
	session  *session.Manager
	cart     *cart.Ledger
	wishlist *wishlist.Set
	recent   *recent.Ring
	archive  *orders.Archive
	promo    *promo.Engine
}

// CartSummary is the derived cart view handed back after every cart
// mutation: line count, full-precision subtotal and discounted display total.
type CartSummary struct {
	Count    int
	Subtotal string
	Total    string
}

// New restores the persisted identity and its namespaced collections and
// returns a ready engine.
func New(ctx context.Context, params Params) (*Engine, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "storefront"})
	}
	events := params.Events
	if events == nil {
		events = NopEvents{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	sess, err := session.NewManager(ctx, params.Store, logg)
	if err != nil {
		return nil, err
	}

	table, err := params.Config.Promo.Table()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "loading promo table")
	}
	promoEngine, err := promo.NewEngine(table)
	if err != nil {
		return nil, err
	}

	ledger, err := cart.NewLedger(ctx, cart.LedgerParams{Store: params.Store, Keys: sess.Key, Log: logg})
	if err != nil {
		return nil, err
	}
	wl, err := wishlist.NewSet(ctx, wishlist.SetParams{Store: params.Store, Keys: sess.Key, Log: logg})
	if err != nil {
		return nil, err
	}
	ring, err := recent.NewRing(ctx, recent.RingParams{
		Store:    params.Store,
		Keys:     sess.Key,
		Log:      logg,
		Capacity: params.Config.Recent.Capacity,
	})
	if err != nil {
		return nil, err
	}
	archive, err := orders.NewArchive(ctx, orders.ArchiveParams{Store: params.Store, Keys: sess.Key, Log: logg})
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    params.Store,
		catalog:  params.Catalog,
		log:      logg,
		events:   events,
		now:      now,
		session:  sess,
		cart:     ledger,
		wishlist: wl,
		recent:   ring,
		archive:  archive,
		promo:    promoEngine,
	}, nil
}

// Catalog returns the read-only product listing the engine shops from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Cart returns the current derived cart view.
func (e *Engine) Cart() CartSummary {
	return CartSummary{
		Count:    e.cart.Len(),
		Subtotal: money.Format(e.cart.Subtotal()),
		Total:    money.Format(e.cart.Total(e.promo.Discount())),
	}
}

// CartItems returns the cart line items in insertion order.
func (e *Engine) CartItems() []cart.LineItem {
	return e.cart.Items()
}

// AddToCart appends the product as a new line item. Adding the same product
// twice creates two independent lines.
func (e *Engine) AddToCart(ctx context.Context, product catalog.Product) (CartSummary, error) {
	if err := product.Validate(); err != nil {
		return e.Cart(), err
	}
	line := cart.LineItem{Name: product.Name, Price: product.Price, Image: product.Image}
	if err := e.cart.Add(ctx, line); err != nil {
		return e.Cart(), err
	}
	e.emitCartChanged()
	return e.Cart(), nil
}

// RemoveCartItem drops the line at index.
func (e *Engine) RemoveCartItem(ctx context.Context, index int) (CartSummary, error) {
	if err := e.cart.Remove(ctx, index); err != nil {
		return e.Cart(), err
	}
	e.emitCartChanged()
	return e.Cart(), nil
}

// ClearCart empties the cart outside of checkout.
func (e *Engine) ClearCart(ctx context.Context) (CartSummary, error) {
	if err := e.cart.Clear(ctx); err != nil {
		return e.Cart(), err
	}
	e.emitCartChanged()
	return e.Cart(), nil
}

// ToggleWishlist adds the product to the wishlist, or removes it when its
// name is already present. Reports whether the product ended up wishlisted.
func (e *Engine) ToggleWishlist(ctx context.Context, product catalog.Product) (bool, error) {
	if err := product.Validate(); err != nil {
		return e.wishlist.Contains(product.Name), err
	}
	display := product.DisplayPrice
	if display == "" {
		display = money.Display(product.Price)
	}
	added, err := e.wishlist.Toggle(ctx, wishlist.Entry{Name: product.Name, Price: display, Image: product.Image})
	if err != nil {
		return added, err
	}
	e.events.WishlistChanged(e.wishlist.Names())
	return added, nil
}

// RemoveWishlistItem drops the wishlist entry at index.
func (e *Engine) RemoveWishlistItem(ctx context.Context, index int) error {
	if err := e.wishlist.RemoveAt(ctx, index); err != nil {
		return err
	}
	e.events.WishlistChanged(e.wishlist.Names())
	return nil
}

// MoveToCart turns the wishlist entry at index into a cart line item and
// removes it from the wishlist.
func (e *Engine) MoveToCart(ctx context.Context, index int) (CartSummary, error) {
	if err := e.wishlist.MoveToCart(ctx, index, e.cart); err != nil {
		return e.Cart(), err
	}
	e.events.WishlistChanged(e.wishlist.Names())
	e.emitCartChanged()
	return e.Cart(), nil
}

// WishlistContains reports wishlist membership by product name.
func (e *Engine) WishlistContains(name string) bool {
	return e.wishlist.Contains(name)
}

// WishlistItems returns the wishlist entries in insertion order.
func (e *Engine) WishlistItems() []wishlist.Entry {
	return e.wishlist.Entries()
}

// RecordView notes a product-detail view in the recently-viewed ring.
// Re-viewing an item already in the ring changes nothing.
func (e *Engine) RecordView(ctx context.Context, product catalog.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	display := product.DisplayPrice
	if display == "" {
		display = money.Display(product.Price)
	}
	if err := e.recent.RecordView(ctx, recent.Entry{Name: product.Name, Price: display, Image: product.Image}); err != nil {
		return err
	}
	e.events.RecentChanged(e.recent.Entries())
	return nil
}

// RemoveRecent drops the recently-viewed entry at index.
func (e *Engine) RemoveRecent(ctx context.Context, index int) error {
	if err := e.recent.RemoveAt(ctx, index); err != nil {
		return err
	}
	e.events.RecentChanged(e.recent.Entries())
	return nil
}

// RecentlyViewed returns the ring, most recently viewed first.
func (e *Engine) RecentlyViewed() []recent.Entry {
	return e.recent.Entries()
}

// ApplyPromo submits a promo code. On success the discount applies to the
// cart total until checkout; failures leave the discount untouched.
func (e *Engine) ApplyPromo(code string) (promo.Result, error) {
	result, err := e.promo.Apply(code)
	if err != nil {
		message := pkgerrors.MetadataFor(pkgerrors.CodePromoRejected).PublicMessage
		if typed := pkgerrors.As(err); typed != nil {
			message = typed.Message()
		}
		e.events.PromoResult(false, message)
		return promo.Result{}, err
	}
	e.events.PromoResult(true, "discount applied: "+result.Code)
	e.emitCartChanged()
	return result, nil
}

// Discount returns the active fractional discount, zero when none applies.
func (e *Engine) Discount() decimal.Decimal {
	return e.promo.Discount()
}

// Checkout finalizes the cart: snapshots it as an order at the current
// discounted total, prepends the order to the archive, then clears the cart
// and resets the discount. An empty cart is rejected with no state change.
func (e *Engine) Checkout(ctx context.Context) (orders.Order, error) {
	if e.cart.Len() == 0 {
		err := pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot checkout an empty cart")
		e.events.CheckoutRejected(pkgerrors.MetadataFor(pkgerrors.CodeEmptyCart).PublicMessage)
		return orders.Order{}, err
	}

	total := e.cart.Total(e.promo.Discount())
	order := orders.NewOrder(e.cart.Items(), total, e.now())
	if err := e.archive.Record(ctx, order); err != nil {
		return orders.Order{}, err
	}
	if err := e.cart.Clear(ctx); err != nil {
		return order, err
	}
	e.promo.Reset()

	e.events.OrderPlaced(order)
	e.emitCartChanged()
	return order, nil
}

// Orders returns the order history, most recent first.
func (e *Engine) Orders() []orders.Order {
	return e.archive.All()
}

// CurrentUser returns the active identity and whether one is set.
func (e *Engine) CurrentUser() (string, bool) {
	return e.session.Current()
}

// Login switches to the named identity and loads that namespace's
// collections. Data under the previous namespace stays where it was; nothing
// is migrated or merged.
func (e *Engine) Login(ctx context.Context, name string) error {
	if err := e.session.Login(ctx, name); err != nil {
		return err
	}
	return e.reloadAll(ctx)
}

// Logout returns to the anonymous namespace and loads its collections.
func (e *Engine) Logout(ctx context.Context) error {
	if err := e.session.Logout(ctx); err != nil {
		return err
	}
	return e.reloadAll(ctx)
}

// SetDarkMode persists the theme preference. The flag is global, shared by
// every identity.
func (e *Engine) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := e.store.Set(ctx, darkModeKey, []byte(strconv.FormatBool(enabled))); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting dark mode flag")
	}
	return nil
}

// DarkMode reports the persisted theme preference, defaulting to light.
func (e *Engine) DarkMode(ctx context.Context) bool {
	raw, err := e.store.Get(ctx, darkModeKey)
	if err != nil {
		return false
	}
	enabled, err := strconv.ParseBool(string(raw))
	if err != nil {
		e.log.Warn(e.log.WithCollection(ctx, darkModeKey), "dark mode flag unreadable, defaulting to light")
		return false
	}
	return enabled
}

// reloadAll swaps every collection over to the active namespace and replays
// change events so the page re-renders the switched-in state. The discount is
// session state, not namespace state, and survives the switch.
func (e *Engine) reloadAll(ctx context.Context) error {
	err := multierr.Combine(
		e.cart.Reload(ctx),
		e.wishlist.Reload(ctx),
		e.recent.Reload(ctx),
		e.archive.Reload(ctx),
	)
	e.emitCartChanged()
	e.events.WishlistChanged(e.wishlist.Names())
	e.events.RecentChanged(e.recent.Entries())
	return err
}

func (e *Engine) emitCartChanged() {
	e.events.CartChanged(e.cart.Len(), money.Format(e.cart.Total(e.promo.Discount())))
}

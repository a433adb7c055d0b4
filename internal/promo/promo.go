// Package promo validates promo codes against a fixed configured table and
// holds the session's discount state. At most one code is active at a time;
// only checkout resets it.
package promo

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
)

// Result reports a successful application: the normalized code and its rate.
type Result struct {
	Code string
	Rate decimal.Decimal
}

// Engine is the two-state discount machine: inactive (zero discount) or
// active at a matched code's fixed rate. Discount state is scoped to the page
// session and never persisted.
type Engine struct {
	table      map[string]decimal.Decimal
	active     bool
	activeCode string
	discount   decimal.Decimal
}

// NewEngine builds the engine over a code-to-rate table. Rates must sit in
// [0, 1).
func NewEngine(table map[string]decimal.Decimal) (*Engine, error) {
	normalized := make(map[string]decimal.Decimal, len(table))
	one := decimal.NewFromInt(1)
	for code, rate := range table {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code must not be empty")
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo rate must be in [0, 1)").WithDetails(code)
		}
		normalized[code] = rate
	}
	return &Engine{table: normalized, discount: decimal.Zero}, nil
}

// Apply matches the code (case-insensitive, whitespace-trimmed) against the
// table. It rejects any input while a discount is active, and unknown codes
// while inactive; both leave the discount unchanged.
func (e *Engine) Apply(code string) (Result, error) {
	if e.active {
		return Result{}, pkgerrors.New(pkgerrors.CodePromoRejected, "a discount is already applied").WithDetails(e.activeCode)
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	rate, ok := e.table[normalized]
	if !ok {
		return Result{}, pkgerrors.New(pkgerrors.CodePromoRejected, "invalid promo code").WithDetails(code)
	}
	e.active = true
	e.activeCode = normalized
	e.discount = rate
	return Result{Code: normalized, Rate: rate}, nil
}

// Discount returns the active fractional discount, zero when inactive.
func (e *Engine) Discount() decimal.Decimal {
	return e.discount
}

// Active reports whether a code is currently applied.
func (e *Engine) Active() bool {
	return e.active
}

// ActiveCode returns the applied code, empty when inactive.
func (e *Engine) ActiveCode() string {
	return e.activeCode
}

// Reset returns the engine to the inactive state. Called on checkout only;
// discounts never carry across orders.
func (e *Engine) Reset() {
	e.active = false
	e.activeCode = ""
	e.discount = decimal.Zero
}

// Package money normalizes prices at the boundary: display strings carrying
// currency symbols and grouping separators are parsed once into exact decimal
// amounts, and amounts are formatted back only for presentation.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
)

// CurrencySymbol is what the storefront renders in front of formatted amounts.
const CurrencySymbol = "₹"

// ParsePrice converts a display price such as "₹1,200.50" into its numeric
// amount. Everything except digits and the decimal point is stripped before
// parsing, so a sign never survives. Unparseable inputs are validation errors.
func ParsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price has no numeric value").WithDetails(raw)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing price").WithDetails(raw)
	}
	return amount, nil
}

// Format renders an amount with two decimal places, e.g. 450 -> "450.00".
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Display renders an amount the way the storefront shows it, currency symbol
// included.
func Display(amount decimal.Decimal) string {
	return CurrencySymbol + Format(amount)
}

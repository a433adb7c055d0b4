package money

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"₹300", "300"},
		{"₹1,200.50", "1200.5"},
		{"500", "500"},
		{"  ₹ 2,999.00 ", "2999"},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.raw)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", tc.raw, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("ParsePrice(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParsePriceRejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{"", "free", "₹", "1.2.3"} {
		_, err := ParsePrice(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.RequireFromString("450")); got != "450.00" {
		t.Fatalf("Format(450) = %s", got)
	}
	if got := Format(decimal.RequireFromString("12.5")); got != "12.50" {
		t.Fatalf("Format(12.5) = %s", got)
	}
	if got := Format(decimal.RequireFromString("0.005")); got != "0.01" {
		t.Fatalf("Format(0.005) = %s", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(decimal.NewFromInt(300)); got != "₹300.00" {
		t.Fatalf("Display(300) = %s", got)
	}
}

package cart

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
	"github.com/khusimart/storefront/pkg/storage/memory"
)

func identityKeys(base string) string { return base }

func newTestLedger(t *testing.T, store storage.Store) *Ledger {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	ledger, err := NewLedger(context.Background(), LedgerParams{Store: store, Keys: identityKeys, Log: logg})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return ledger
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAddAllowsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, memory.New())

	item := LineItem{Name: "T-Shirt", Price: price("500"), Image: "tshirt.jpg"}
	if err := ledger.Add(ctx, item); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ledger.Add(ctx, item); err != nil {
		t.Fatalf("add duplicate: %v", err)
	}

	if ledger.Len() != 2 {
		t.Fatalf("expected two independent lines, got %d", ledger.Len())
	}
	if !ledger.Subtotal().Equal(price("1000")) {
		t.Fatalf("unexpected subtotal: %s", ledger.Subtotal())
	}
}

func TestSubtotalIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	forward := newTestLedger(t, memory.New())
	backward := newTestLedger(t, memory.New())

	items := []LineItem{
		{Name: "Shoes", Price: price("1200.50")},
		{Name: "Cap", Price: price("300")},
		{Name: "T-Shirt", Price: price("499.99")},
	}
	for _, item := range items {
		if err := forward.Add(ctx, item); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	for i := len(items) - 1; i >= 0; i-- {
		if err := backward.Add(ctx, items[i]); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if !forward.Subtotal().Equal(backward.Subtotal()) {
		t.Fatalf("subtotal depends on order: %s vs %s", forward.Subtotal(), backward.Subtotal())
	}
}

func TestRemoveBoundsChecked(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, memory.New())
	if err := ledger.Add(ctx, LineItem{Name: "Cap", Price: price("300")}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, index := range []int{-1, 1, 99} {
		err := ledger.Remove(ctx, index)
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for index %d, got %v", index, err)
		}
	}
	if ledger.Len() != 1 {
		t.Fatalf("out-of-range remove mutated the ledger: %d", ledger.Len())
	}

	if err := ledger.Remove(ctx, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ledger.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d", ledger.Len())
	}
}

func TestTotalAppliesDiscountAndRounds(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, memory.New())
	if err := ledger.Add(ctx, LineItem{Name: "T-Shirt", Price: price("500")}); err != nil {
		t.Fatalf("add: %v", err)
	}

	total := ledger.Total(price("0.10"))
	if !total.Equal(price("450")) {
		t.Fatalf("expected 450, got %s", total)
	}

	if err := ledger.Add(ctx, LineItem{Name: "Odd", Price: price("33.335")}); err != nil {
		t.Fatalf("add: %v", err)
	}
	rounded := ledger.Total(decimal.Zero)
	if rounded.Exponent() < -2 {
		t.Fatalf("display total not rounded to two places: %s", rounded)
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ledger := newTestLedger(t, store)
	if err := ledger.Add(ctx, LineItem{Name: "Shoes", Price: price("1200")}); err != nil {
		t.Fatalf("add: %v", err)
	}

	restored := newTestLedger(t, store)
	if restored.Len() != 1 || restored.Items()[0].Name != "Shoes" {
		t.Fatalf("unexpected restored state: %+v", restored.Items())
	}
}

func TestCorruptDataDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.Set(ctx, BaseKey, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ledger := newTestLedger(t, store)
	if ledger.Len() != 0 {
		t.Fatalf("expected empty ledger on corrupt data, got %d", ledger.Len())
	}
}

func TestClearPersistsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ledger := newTestLedger(t, store)
	if err := ledger.Add(ctx, LineItem{Name: "Cap", Price: price("300")}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ledger.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	raw, err := store.Get(ctx, BaseKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected persisted empty array, got %s", raw)
	}
}

package storefront_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	storefront "github.com/khusimart/storefront"
	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/logger"
)

func TestOpenStoreMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}
	store, err := storefront.OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if store == nil {
		t.Fatal("expected a store")
	}
}

func TestOpenStoreFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverFile, Path: path}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	store, err := storefront.OpenStore(ctx, cfg, logg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(ctx, "darkMode", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := storefront.OpenStore(ctx, cfg, logg)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	val, err := reopened.Get(ctx, "darkMode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(val) != "true" {
		t.Fatalf("unexpected value after reopen: %s", val)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "state.db"),
	}}
	store, err := storefront.OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(context.Background(), "cart", []byte("[]")); err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "dynamodb"}}
	if _, err := storefront.OpenStore(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenStoreRequiresConfig(t *testing.T) {
	if _, err := storefront.OpenStore(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

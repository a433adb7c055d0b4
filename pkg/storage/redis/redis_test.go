package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/storage"
)

type fakeClient struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Ping(ctx context.Context) *redislib.StatusCmd {
	return redislib.NewStatusResult("PONG", nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, ttl time.Duration) *redislib.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return redislib.NewStatusResult("OK", nil)
}

func (f *fakeClient) Get(ctx context.Context, key string) *redislib.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return redislib.NewStringResult("", redislib.Nil)
	}
	return redislib.NewStringResult(val, nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redislib.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			removed++
		}
	}
	return redislib.NewIntResult(removed, nil)
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeClient()
	store := NewWithClient(fake)

	if _, err := store.Get(ctx, "cart"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("expected key-not-found, got %v", err)
	}

	if err := store.Set(ctx, "cart", []byte(`[{"name":"Cap"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := store.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(val) != `[{"name":"Cap"}]` {
		t.Fatalf("unexpected value: %s", val)
	}

	if err := store.Delete(ctx, "cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "cart"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("expected key-not-found after delete, got %v", err)
	}
}

func TestKeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	fake := newFakeClient()
	store := NewWithClient(fake)

	if err := store.Set(ctx, "wishlist_alice", []byte("[]")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.data["storefront:wishlist_alice"]; !ok {
		t.Fatalf("expected namespaced key, have %v", fake.data)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2"})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestOptionsFromConfigUsesAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "127.0.0.1:6380", DB: 1, PoolSize: 4})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "127.0.0.1:6380" || opts.DB != 1 || opts.PoolSize != 4 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

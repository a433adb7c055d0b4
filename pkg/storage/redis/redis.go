// Package redis backs the key-value store with a Redis instance, for setups
// where the storefront state should outlive the local machine.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/storage"
)

const keyNamespace = "storefront"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Store is a Redis-backed key-value store.
type Store struct {
	store cmdable
}

// New bootstraps a Redis client from configuration and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{store: raw}, nil
}

// NewWithClient wires the store over an existing command surface. Tests use
// this to substitute a fake.
func NewWithClient(client cmdable) *Store {
	return &Store{store: client}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return parsed, nil
	}
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}, nil
}

func namespacedKey(key string) string {
	return fmt.Sprintf("%s:%s", keyNamespace, key)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.store.Get(ctx, namespacedKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, namespacedKey(key), string(value), 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.store.Del(ctx, namespacedKey(key)).Err()
}

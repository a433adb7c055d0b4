package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
	filestore "github.com/khusimart/storefront/pkg/storage/file"
	"github.com/khusimart/storefront/pkg/storage/memory"
	redisstore "github.com/khusimart/storefront/pkg/storage/redis"
	sqlitestore "github.com/khusimart/storefront/pkg/storage/sqlite"
)

// OpenStore builds the storage backend named by the configuration's storage
// driver. The returned store is ready to hand to New.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverFile:
		return filestore.Open(cfg.Storage.Path, log)
	case config.DriverSQLite:
		return sqlitestore.New(ctx, cfg.Storage)
	case config.DriverRedis:
		return redisstore.New(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

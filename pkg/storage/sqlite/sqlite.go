// Package sqlite backs the key-value store with a local sqlite database so
// state survives across sessions without any external service.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/khusimart/storefront/pkg/config"
	"github.com/khusimart/storefront/pkg/storage"
)

// Entry is the single table holding every persisted collection and flag.
type Entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name independent of gorm's pluralization.
func (Entry) TableName() string {
	return "storage_entries"
}

// Store is a sqlite-backed key-value store.
type Store struct {
	db *gorm.DB
}

// New opens (or creates) the sqlite database named by the storage config and
// migrates the entries table.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Path
	}
	if dsn == "" {
		return nil, fmt.Errorf("sqlite storage requires a path or DSN")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite storage: %w", err)
	}
	if err := conn.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating storage schema: %w", err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).
		Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

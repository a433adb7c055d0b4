// Package file persists the key-value state as a single JSON document on
// disk, the closest server-side analogue to browser local storage. Writes
// rewrite the whole document through a temp file plus rename so a crash never
// leaves a half-written state file behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
)

// Store is a file-backed key-value store. Values are stored as strings, the
// same shape local storage gives the original scripts.
type Store struct {
	path    string
	entries map[string]string
}

// Open loads the state file at path, creating an empty store when the file
// does not exist. A corrupt file degrades to an empty store rather than
// failing the page session; the corruption is logged for diagnosis.
func Open(path string, logg *logger.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	store := &Store{path: path, entries: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	if len(raw) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(raw, &store.entries); err != nil {
		if logg != nil {
			logg.Error(context.Background(), "state file corrupt, starting empty", err)
		}
		store.entries = make(map[string]string)
	}
	return store, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := s.entries[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return []byte(val), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.entries[key] = string(value)
	return s.flush()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flush()
}

func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

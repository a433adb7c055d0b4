// Package session resolves the active shopper identity and derives the
// per-user namespace every persisted collection is keyed under.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/logger"
	"github.com/khusimart/storefront/pkg/storage"
)

// currentUserKey is the global, non-namespaced entry holding the identity.
const currentUserKey = "currentUser"

// keySeparator joins a base key with the identity suffix.
const keySeparator = "_"

// Manager tracks the current identity for a page session. Absent identity is
// a valid state: anonymous shoppers share the unsuffixed namespace.
type Manager struct {
	store   storage.Store
	log     *logger.Logger
	current string
}

// NewManager restores the persisted identity, if any.
func NewManager(ctx context.Context, store storage.Store, log *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	m := &Manager{store: store, log: log}

	raw, err := store.Get(ctx, currentUserKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
	case err != nil:
		log.Error(ctx, "reading current user, continuing anonymous", err)
	default:
		m.current = strings.TrimSpace(string(raw))
	}
	return m, nil
}

// Current returns the active identity and whether one is set.
func (m *Manager) Current() (string, bool) {
	return m.current, m.current != ""
}

// Key namespaces a base key by the active identity. Anonymous sessions use
// the base key unchanged, so anonymous state is shared and never merged with
// any user's state.
func (m *Manager) Key(base string) string {
	if m.current == "" {
		return base
	}
	return base + keySeparator + m.current
}

// Login switches to the named identity and persists it globally. Collections
// under the previous namespace are left untouched.
func (m *Manager) Login(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	if err := m.store.Set(ctx, currentUserKey, []byte(name)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting current user")
	}
	m.current = name
	m.log.Info(m.log.WithUser(ctx, name), "user logged in")
	return nil
}

// Logout returns the session to the anonymous namespace.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, currentUserKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing current user")
	}
	m.current = ""
	m.log.Info(ctx, "user logged out")
	return nil
}

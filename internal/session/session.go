// Package session keeps the signed-in admin's token, role and user id in a
// persistent key-value store. The auth flow is the only writer; everything
// else reads through View.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paradisepeak/ppadmin/internal/storage"
)

// Keys under which session values are persisted.
const (
	KeyToken  = "token"
	KeyRole   = "role"
	KeyUserID = "userid"
)

// Roles returned by the auth endpoints.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Store is the persistent key-value backend. *storage.Store satisfies it.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// View is the read-only side of the session handed to the API client and guards.
type View interface {
	Token() string
	Role() string
	UserID() string
	IsAuthenticated() bool
	IsAdmin() bool
	IsUser() bool
}

// Manager caches the persisted values in memory and writes through on change.
type Manager struct {
	store Store

	mu     sync.RWMutex
	token  string
	role   string
	userID string
}

var _ View = (*Manager)(nil)

// Open loads the persisted session values from store.
func Open(store Store) (*Manager, error) {
	m := &Manager{store: store}
	var err error
	if m.token, err = load(store, KeyToken); err != nil {
		return nil, err
	}
	if m.role, err = load(store, KeyRole); err != nil {
		return nil, err
	}
	if m.userID, err = load(store, KeyUserID); err != nil {
		return nil, err
	}
	return m, nil
}

func load(store Store, key string) (string, error) {
	v, err := store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading session %s: %w", key, err)
	}
	return v, nil
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Role() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.role
}

func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

func (m *Manager) IsAdmin() bool {
	return m.Role() == RoleAdmin
}

func (m *Manager) IsUser() bool {
	return m.Role() == RoleUser
}

// SignIn persists the values returned by a successful login.
func (m *Manager) SignIn(token, role, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kv := range [][2]string{{KeyToken, token}, {KeyRole, role}, {KeyUserID, userID}} {
		if err := m.store.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}
	m.token, m.role, m.userID = token, role, userID
	return nil
}

// SignOut removes token, role and user id.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(KeyToken, KeyRole, KeyUserID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.token, m.role, m.userID = "", "", ""
	return nil
}

// ClearAuth removes token and role but keeps the user id.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(KeyToken, KeyRole); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.token, m.role = "", ""
	return nil
}

// Static is a fixed View, useful for tests and for one-off clients.
type Static struct {
	TokenValue  string
	RoleValue   string
	UserIDValue string
}

var _ View = Static{}

func (s Static) Token() string         { return s.TokenValue }
func (s Static) Role() string          { return s.RoleValue }
func (s Static) UserID() string        { return s.UserIDValue }
func (s Static) IsAuthenticated() bool { return s.TokenValue != "" }
func (s Static) IsAdmin() bool         { return s.RoleValue == RoleAdmin }
func (s Static) IsUser() bool          { return s.RoleValue == RoleUser }

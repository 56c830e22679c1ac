package session

import (
	"errors"
	"testing"

	"github.com/paradisepeak/ppadmin/internal/storage"
)

func openTestManager(t *testing.T) (*Manager, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m, err := Open(store)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m, store
}

func TestEmptySession(t *testing.T) {
	m, _ := openTestManager(t)

	if m.IsAuthenticated() {
		t.Error("fresh session should not be authenticated")
	}
	if m.IsAdmin() || m.IsUser() {
		t.Error("fresh session should have no role")
	}
}

func TestSignInPersists(t *testing.T) {
	m, store := openTestManager(t)

	if err := m.SignIn("tok", RoleAdmin, "u-1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !m.IsAuthenticated() || !m.IsAdmin() {
		t.Fatalf("expected authenticated admin, got token=%q role=%q", m.Token(), m.Role())
	}

	reopened, err := Open(store)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Token() != "tok" || reopened.Role() != RoleAdmin || reopened.UserID() != "u-1" {
		t.Errorf("reopened = %q/%q/%q, want tok/admin/u-1", reopened.Token(), reopened.Role(), reopened.UserID())
	}
}

func TestSignOutClearsAll(t *testing.T) {
	m, store := openTestManager(t)
	if err := m.SignIn("tok", RoleUser, "u-2"); err != nil {
		t.Fatal(err)
	}

	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if m.IsAuthenticated() || m.UserID() != "" {
		t.Error("session should be empty after sign out")
	}
	for _, k := range []string{KeyToken, KeyRole, KeyUserID} {
		if _, err := store.Get(k); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s still persisted: %v", k, err)
		}
	}
}

func TestClearAuthKeepsUserID(t *testing.T) {
	m, _ := openTestManager(t)
	if err := m.SignIn("tok", RoleUser, "u-3"); err != nil {
		t.Fatal(err)
	}

	if err := m.ClearAuth(); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("token should be cleared")
	}
	if m.UserID() != "u-3" {
		t.Errorf("UserID = %q, want u-3", m.UserID())
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, error) { return "", errors.New("disk on fire") }
func (failingStore) Set(string, string) error   { return errors.New("disk on fire") }
func (failingStore) Delete(...string) error     { return errors.New("disk on fire") }

func TestOpenPropagatesStoreErrors(t *testing.T) {
	if _, err := Open(failingStore{}); err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestStaticView(t *testing.T) {
	v := Static{TokenValue: "t", RoleValue: RoleAdmin}
	if !v.IsAuthenticated() || !v.IsAdmin() || v.IsUser() {
		t.Errorf("unexpected static view state: %+v", v)
	}
}

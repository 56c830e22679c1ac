package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store keeps session values in SQLite. Values live under a scope, so one
// database can hold separate sessions for several API servers.
type Store struct {
	db    *sql.DB
	scope string
}

// Open opens (or creates) ppadmin.db in dataDir and brings its schema up to
// date. ":memory:" opens a private in-memory database.
func Open(dataDir string) (*Store, error) {
	dsn := ":memory:"
	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "ppadmin.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: an in-memory database is per connection, and the CLI
	// never needs more.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Scoped returns a view of the same database restricted to scope. Closing
// either store closes both.
func (s *Store) Scoped(scope string) *Store {
	return &Store{db: s.db, scope: scope}
}

// Scope is the scope this store reads and writes.
func (s *Store) Scope() string { return s.scope }

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies every embedded migration numbered above PRAGMA user_version,
// in one transaction.
func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	// fs.Glob returns names in lexical order, which is numeric order for NNN_ prefixes.
	var pending []string
	latest := current
	for _, name := range files {
		v, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if v > current {
			pending = append(pending, name)
			latest = max(latest, v)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, name := range pending {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("applying %s: %w", filepath.Base(name), err)
		}
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", latest)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return tx.Commit()
}

func migrationVersion(name string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(filepath.Base(name), "%d_", &v); err != nil {
		return 0, fmt.Errorf("migration %q has no version prefix: %w", name, err)
	}
	return v, nil
}

// SchemaVersion reports the highest applied migration.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM session_values WHERE scope = ? AND key = ?", s.scope, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO session_values (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.scope, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes keys from this scope. Missing keys are ignored.
func (s *Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, s.scope)
	for _, k := range keys {
		args = append(args, k)
	}
	q := "DELETE FROM session_values WHERE scope = ? AND key IN (?" + strings.Repeat(", ?", len(keys)-1) + ")"
	if _, err := s.db.Exec(q, args...); err != nil {
		return fmt.Errorf("deleting %s: %w", strings.Join(keys, ", "), err)
	}
	return nil
}

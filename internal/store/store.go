package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store closed")

// Store is the durable record store. The connection is established lazily
// on first use and memoized, so Open may be called any number of times.
type Store struct {
	dsn string

	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// New returns an unopened Store for the SQLite database at dsn.
func New(dsn string) *Store {
	return &Store{dsn: dsn}
}

// Open creates a Store and establishes its connection immediately.
func Open(ctx context.Context, dsn string) (*Store, error) {
	s := New(dsn)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open connects to the database, applies pragmas and provisions every
// collection that is missing. It is idempotent and safe for concurrent use:
// callers arriving while the first open is in progress wait for it and
// share its connection. A failed open leaves the store unopened so a later
// call can retry.
func (s *Store) Open(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return db, nil
}

// DB returns the underlying *sql.DB for raw queries, opening it if needed.
func (s *Store) DB(ctx context.Context) (*sql.DB, error) {
	return s.conn(ctx)
}

// Close closes the database connection. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// applyPragmas configures SQLite for single-user local storage.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CBT_DB environment variable
// 2. $XDG_DATA_HOME/cbt/cbt.db
// 3. ~/.local/share/cbt/cbt.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CBT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "cbt", "cbt.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

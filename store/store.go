package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	duckdb "github.com/duckdb/duckdb-go/v2"
)

var (
	ErrClosed        = errors.New("store is closed")
	ErrTableNotFound = errors.New("table not found")
)

// Store is a handle to an embedded DuckDB database, either transient
// in-memory or backed by a file.
type Store struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	closed bool
}

func open(dsn string) (*Store, error) {
	connector, err := duckdb.NewConnector(dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{
		db:   sql.OpenDB(connector),
		path: dsn,
	}, nil
}

// NewMemoryStore opens a transient in-memory database. Its contents live
// only as long as the handle.
func NewMemoryStore() (*Store, error) {
	return open("")
}

// NewFileStore opens (or creates) a database file at path.
func NewFileStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store requires a path")
	}
	return open(path)
}

// Path returns the database file path, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	return s.db.PingContext(ctx)
}

// Close releases the database handle. The caller owns the handle's
// lifetime; a file store is not removed, an in-memory store is discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return nil
}

package db

import (
	"context"
	"strings"
	"time"

	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/store"
)

// Session executes SQL statements against a store on behalf of an
// identity. The statement text passes through to the engine untouched;
// the session only decides whether to expect rows back and measures
// execution.
type Session struct {
	store    *store.Store
	identity core.Identity
}

func NewSession(st *store.Store, identity core.Identity) *Session {
	return &Session{
		store:    st,
		identity: identity,
	}
}

// Store returns the underlying store handle.
func (s *Session) Store() *store.Store {
	return s.store
}

// Identity returns the identity the session acts as.
func (s *Session) Identity() core.Identity {
	return s.identity
}

// Execute runs a SQL statement and returns a materialized Result.
func (s *Session) Execute(query string) (Result, error) {
	return s.ExecuteContext(context.Background(), query)
}

func (s *Session) ExecuteContext(ctx context.Context, query string) (Result, error) {
	startTime := time.Now()

	if returnsRows(query) {
		rows, err := s.store.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		return QueryResult{
			Columns:          rows.Columns,
			Data:             rows.Data,
			RecordsRead:      len(rows.Data),
			ExecutionTimeSec: time.Since(startTime).Seconds(),
		}, nil
	}

	affected, err := s.store.Exec(ctx, query)
	if err != nil {
		return nil, err
	}
	return ExecResult{
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

// OpenCursor starts a query and returns a batch-fetch cursor instead of
// materializing the result.
func (s *Session) OpenCursor(query string) (*store.Cursor, error) {
	return s.OpenCursorContext(context.Background(), query)
}

func (s *Session) OpenCursorContext(ctx context.Context, query string) (*store.Cursor, error) {
	return s.store.OpenCursor(ctx, query)
}

// returnsRows reports whether a statement produces a result set, judged by
// its leading keyword only. The engine owns the dialect; anything it
// rejects surfaces as its error either way.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "FROM", "SHOW", "DESCRIBE", "PRAGMA", "VALUES", "EXPLAIN", "SUMMARIZE":
		return true
	default:
		return false
	}
}

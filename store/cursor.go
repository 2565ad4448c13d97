package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Cursor is a forward-only handle over an in-flight query. Rows are pulled
// from the engine in caller-sized batches rather than materialized up front.
// Callers must release the cursor with Close when done.
type Cursor struct {
	rows    *sql.Rows
	columns []string
	pending []string
	done    bool
	closed  bool
}

// OpenCursor starts a query and returns a cursor over its results.
func (s *Store) OpenCursor(ctx context.Context, query string) (*Cursor, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	c := &Cursor{
		rows:    rows,
		columns: columns,
	}

	// Read one row ahead so HasMore is accurate before the first fetch.
	if err := c.advance(); err != nil {
		rows.Close()
		return nil, err
	}
	return c, nil
}

// Columns returns the result column names.
func (c *Cursor) Columns() []string {
	return c.columns
}

// HasMore reports whether another FetchBatch call would return rows.
func (c *Cursor) HasMore() bool {
	return !c.done
}

// FetchBatch returns up to n rows. It returns an empty batch once the
// cursor is exhausted.
func (c *Cursor) FetchBatch(n int) ([][]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid batch size %d", n)
	}
	if c.closed {
		return nil, errors.New("cursor is closed")
	}

	batch := make([][]string, 0, n)
	for len(batch) < n && !c.done {
		batch = append(batch, c.pending)
		if err := c.advance(); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

// advance buffers the next row, or marks the cursor exhausted.
func (c *Cursor) advance() error {
	if !c.rows.Next() {
		c.pending = nil
		c.done = true
		return c.rows.Err()
	}

	values := make([]any, len(c.columns))
	pointers := make([]any, len(c.columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := c.rows.Scan(pointers...); err != nil {
		return err
	}

	row := make([]string, len(values))
	for i, v := range values {
		row[i] = formatValue(v)
	}
	c.pending = row
	return nil
}

// Close releases the cursor. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.done = true
	c.pending = nil
	return c.rows.Close()
}

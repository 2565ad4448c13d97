package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Rows holds a fully materialized query result.
type Rows struct {
	Columns []string
	Data    [][]string
}

// Query runs a statement and materializes every result row.
func (s *Store) Query(ctx context.Context, query string) (*Rows, error) {
	cursor, err := s.OpenCursor(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	result := &Rows{Columns: cursor.Columns()}
	for cursor.HasMore() {
		batch, err := cursor.FetchBatch(1024)
		if err != nil {
			return nil, err
		}
		result.Data = append(result.Data, batch...)
	}
	return result, nil
}

// Exec runs a statement that returns no rows and reports rows affected.
func (s *Store) Exec(ctx context.Context, query string) (int64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		// Not every statement reports a count.
		return 0, nil
	}
	return affected, nil
}

// formatValue renders an engine value for the string result grid.
// NULL renders as the empty string.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	case bool:
		return strconv.FormatBool(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		if value == math.Trunc(value) && math.Abs(value) < 1e15 {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'g', -1, 32)
	case time.Time:
		if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 && value.Nanosecond() == 0 {
			return value.Format("2006-01-02")
		}
		return value.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", value)
	}
}

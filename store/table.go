package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"

	"github.com/jstrand/CsvDB/core"
)

// quoteIdent quotes an identifier for use in generated SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTable creates a table from a schema descriptor.
func (s *Store) CreateTable(ctx context.Context, table core.Table) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", table.Name)
	}

	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = quoteIdent(col.Name) + " " + col.Type.SQLType()
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

// DropTable removes a table if it exists.
func (s *Store) DropTable(ctx context.Context, name string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name))
	if err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	return nil
}

// HasTable reports whether a table with the given name exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'main' AND table_name = ?",
		name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTables returns the names of all tables, sorted.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DescribeTable returns the schema of an existing table.
func (s *Store) DescribeTable(ctx context.Context, name string) (*core.Table, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' AND table_name = ? ORDER BY ordinal_position",
		name)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", name, err)
	}
	defer rows.Close()

	table := core.Table{Name: name}
	for rows.Next() {
		var colName, colType string
		if err := rows.Scan(&colName, &colType); err != nil {
			return nil, err
		}
		table.Columns = append(table.Columns, core.Column{
			Name: colName,
			Type: core.ParseColumnType(colType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return &table, nil
}

// CountRows returns the number of rows in a table.
func (s *Store) CountRows(ctx context.Context, name string) (int64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(name)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", name, err)
	}
	return count, nil
}

// AppendRows bulk-writes rows into an existing table using the DuckDB
// appender. Row values must already be typed to match the table schema
// (int64, float64, bool, string, time.Time, or nil for NULL).
func (s *Store) AppendRows(ctx context.Context, table string, rows [][]any) (int64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var written int64
	err = conn.Raw(func(driverConn any) error {
		appender, err := duckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		if err != nil {
			return fmt.Errorf("failed to open appender for %s: %w", table, err)
		}

		for _, row := range rows {
			values := make([]driver.Value, len(row))
			for i, v := range row {
				values[i] = v
			}
			if err := appender.AppendRow(values...); err != nil {
				appender.Close()
				return fmt.Errorf("failed to append row %d: %w", written, err)
			}
			written++
		}

		// Close flushes the appender; rows are not visible before this.
		return appender.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// WriteTable creates the table and loads rows in one step, replacing any
// existing table with the same name.
func (s *Store) WriteTable(ctx context.Context, table core.Table, rows [][]any) (int64, error) {
	if err := s.DropTable(ctx, table.Name); err != nil {
		return 0, err
	}
	if err := s.CreateTable(ctx, table); err != nil {
		return 0, err
	}
	return s.AppendRows(ctx, table.Name, rows)
}

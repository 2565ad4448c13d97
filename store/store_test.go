package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jstrand/CsvDB/core"
)

func setupTestStore(t *testing.T) *Store {
	st, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func usersTable() core.Table {
	return core.Table{
		Name: "users",
		Columns: []core.Column{
			{Name: "id", Type: core.IntType},
			{Name: "name", Type: core.StringType},
			{Name: "age", Type: core.IntType},
		},
	}
}

func usersRows() [][]any {
	return [][]any{
		{int64(1), "Alice", int64(30)},
		{int64(2), "Bob", int64(25)},
		{int64(3), "Charlie", int64(35)},
	}
}

func TestStoreWriteTable(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	written, err := st.WriteTable(ctx, usersTable(), usersRows())
	if err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}
	if written != 3 {
		t.Errorf("Expected 3 rows written, got %d", written)
	}

	count, err := st.CountRows(ctx, "users")
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows, got %d", count)
	}
}

func TestStoreWriteTableReplaces(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if _, err := st.WriteTable(ctx, usersTable(), usersRows()); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	// A second load with the same name replaces the table wholesale.
	written, err := st.WriteTable(ctx, usersTable(), usersRows()[:1])
	if err != nil {
		t.Fatalf("Failed to rewrite table: %v", err)
	}
	if written != 1 {
		t.Errorf("Expected 1 row written, got %d", written)
	}

	count, _ := st.CountRows(ctx, "users")
	if count != 1 {
		t.Errorf("Expected 1 row after replace, got %d", count)
	}
}

func TestStoreQuery(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if _, err := st.WriteTable(ctx, usersTable(), usersRows()); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	rows, err := st.Query(ctx, "SELECT name FROM users WHERE age > 28 ORDER BY name")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(rows.Data) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows.Data))
	}
	if rows.Data[0][0] != "Alice" || rows.Data[1][0] != "Charlie" {
		t.Errorf("Unexpected rows: %v", rows.Data)
	}
}

func TestStoreQueryNullRendersEmpty(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	rows, err := st.Query(ctx, "SELECT NULL, 42, 'x'")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if rows.Data[0][0] != "" {
		t.Errorf("Expected NULL to render as empty string, got %q", rows.Data[0][0])
	}
	if rows.Data[0][1] != "42" {
		t.Errorf("Expected 42, got %q", rows.Data[0][1])
	}
}

func TestStoreQueryMalformedSQL(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if _, err := st.WriteTable(ctx, usersTable(), usersRows()); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	// Engine errors surface directly; there is no recovery layer.
	_, err := st.Query(ctx, "SELECT * FROM users ORDER age")
	if err == nil {
		t.Error("Expected error for malformed ORDER BY")
	}
}

func TestStoreQueryMissingTable(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.Query(context.Background(), "SELECT * FROM nope")
	if err == nil {
		t.Error("Expected error querying missing table")
	}
}

func TestStoreListAndDescribeTables(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if _, err := st.WriteTable(ctx, usersTable(), usersRows()); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	names, err := st.ListTables(ctx)
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(names) != 1 || names[0] != "users" {
		t.Errorf("Expected [users], got %v", names)
	}

	table, err := st.DescribeTable(ctx, "users")
	if err != nil {
		t.Fatalf("Failed to describe table: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(table.Columns))
	}
	if table.Columns[0].Name != "id" || table.Columns[0].Type != core.IntType {
		t.Errorf("Unexpected first column: %+v", table.Columns[0])
	}
}

func TestStoreDescribeMissingTable(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.DescribeTable(context.Background(), "nope")
	if err == nil {
		t.Error("Expected error describing missing table")
	}
}

func TestStoreClosedHandle(t *testing.T) {
	st, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	// Close is idempotent.
	if err := st.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}

	if _, err := st.Query(context.Background(), "SELECT 1"); err != ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	st, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	if _, err := st.WriteTable(ctx, usersTable(), usersRows()); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	// Reopen and verify the data survived the handle.
	st, err = NewFileStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen file store: %v", err)
	}
	defer st.Close()

	count, err := st.CountRows(ctx, "users")
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows after reopen, got %d", count)
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

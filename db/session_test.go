package db

import (
	"context"
	"strings"
	"testing"

	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/store"
)

func setupSession(t *testing.T) *Session {
	t.Helper()

	st, err := store.NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	table := core.Table{
		Name: "pets",
		Columns: []core.Column{
			{Name: "name", Type: core.StringType},
			{Name: "species", Type: core.StringType},
			{Name: "age", Type: core.IntType},
		},
	}
	rows := [][]any{
		{"Rex", "dog", int64(4)},
		{"Whiskers", "cat", int64(2)},
		{"Fido", "dog", int64(7)},
	}
	if _, err := st.WriteTable(context.Background(), table, rows); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	return NewSession(st, core.Identity{Name: "tester", Email: "tester@example.com"})
}

func TestSessionSelect(t *testing.T) {
	session := setupSession(t)

	result, err := session.Execute("SELECT name, species FROM pets ORDER BY name")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	qr, ok := result.(QueryResult)
	if !ok {
		t.Fatalf("Expected QueryResult, got %T", result)
	}
	if qr.RecordsRead != 3 {
		t.Errorf("Expected 3 records, got %d", qr.RecordsRead)
	}
	if len(qr.Columns) != 2 || qr.Columns[0] != "name" {
		t.Errorf("Unexpected columns: %v", qr.Columns)
	}
	if qr.Data[0][0] != "Fido" {
		t.Errorf("Expected Fido first, got %s", qr.Data[0][0])
	}
}

func TestSessionAggregate(t *testing.T) {
	session := setupSession(t)

	result, err := session.Execute("SELECT species, COUNT(*) AS n FROM pets GROUP BY species ORDER BY n DESC")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	qr := result.(QueryResult)
	if qr.RecordsRead != 2 {
		t.Fatalf("Expected 2 groups, got %d", qr.RecordsRead)
	}
	if qr.Data[0][0] != "dog" || qr.Data[0][1] != "2" {
		t.Errorf("Unexpected first group: %v", qr.Data[0])
	}
}

func TestSessionExec(t *testing.T) {
	session := setupSession(t)

	result, err := session.Execute("DELETE FROM pets WHERE species = 'dog'")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	er, ok := result.(ExecResult)
	if !ok {
		t.Fatalf("Expected ExecResult, got %T", result)
	}
	if er.RowsAffected != 2 {
		t.Errorf("Expected 2 rows affected, got %d", er.RowsAffected)
	}

	remaining, err := session.Execute("SELECT * FROM pets")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if remaining.(QueryResult).RecordsRead != 1 {
		t.Errorf("Expected 1 row remaining")
	}
}

func TestSessionError(t *testing.T) {
	session := setupSession(t)

	if _, err := session.Execute("SELECT * FROM nothere"); err == nil {
		t.Error("Expected error for missing table")
	}
	if _, err := session.Execute("SELECT FROM WHERE"); err == nil {
		t.Error("Expected error for malformed statement")
	}
}

func TestSessionCursor(t *testing.T) {
	session := setupSession(t)

	cursor, err := session.OpenCursor("SELECT name FROM pets ORDER BY age")
	if err != nil {
		t.Fatalf("OpenCursor failed: %v", err)
	}
	defer cursor.Close()

	batch, err := cursor.FetchBatch(2)
	if err != nil {
		t.Fatalf("FetchBatch failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(batch))
	}
	if batch[0][0] != "Whiskers" {
		t.Errorf("Expected youngest pet first, got %s", batch[0][0])
	}
	if !cursor.HasMore() {
		t.Error("Expected more rows after first batch")
	}
}

func TestSessionIdentity(t *testing.T) {
	session := setupSession(t)

	if session.Identity().Name != "tester" {
		t.Errorf("Unexpected identity: %v", session.Identity())
	}
	if session.Store() == nil {
		t.Error("Expected store handle")
	}
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT 1", true},
		{"  select * from pets", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"SHOW TABLES", true},
		{"DESCRIBE pets", true},
		{"SUMMARIZE pets", true},
		{"INSERT INTO pets VALUES ('x', 'dog', 1)", false},
		{"DELETE FROM pets", false},
		{"CREATE TABLE t (a INTEGER)", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := returnsRows(tt.query); got != tt.want {
			t.Errorf("returnsRows(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0.0001, "<1ms"},
		{0.005, "5ms"},
		{0.0523, "52ms"},
		{1.5, "1.5s"},
		{42, "42s"},
		{120, "2m"},
		{95, "1m35s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestGridRender(t *testing.T) {
	var buf strings.Builder
	grid := NewGrid(&buf)
	grid.Header([]string{"name", "age"})
	grid.Bulk([][]string{
		{"Rex", "4"},
		{"Whiskers", "2"},
	})
	grid.Render()

	out := buf.String()
	if !strings.Contains(out, "| name ") {
		t.Errorf("Missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "| Whiskers |") {
		t.Errorf("Missing row in output:\n%s", out)
	}
	// Numeric column right-aligned against the widest header cell
	if !strings.Contains(out, "|   4 |") {
		t.Errorf("Expected right-aligned numeric cell:\n%s", out)
	}
}

func TestGridEmpty(t *testing.T) {
	var buf strings.Builder
	grid := NewGrid(&buf)
	grid.Render()
	if buf.Len() != 0 {
		t.Errorf("Expected no output for empty grid, got %q", buf.String())
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jstrand/CsvDB"
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/db"
	"github.com/jstrand/CsvDB/store"
)

func setupTestCLI(t *testing.T) *CLI {
	t.Helper()

	st, err := store.NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	instance := CsvDB.Open(st)
	session := instance.Session(core.Identity{
		Name:  "test",
		Email: "test@test.com",
	})

	return &CLI{
		session: session,
		loader:  instance.Loader(),
		history: make([]string, 0),
	}
}

func TestCLILoadDataset(t *testing.T) {
	cli := setupTestCLI(t)

	csvPath := filepath.Join(t.TempDir(), "pets.csv")
	content := "name,age\nRex,4\nWhiskers,2\n"
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	if err := cli.loadDataset(csvPath); err != nil {
		t.Fatalf("loadDataset failed: %v", err)
	}

	result, err := cli.session.Execute("SELECT COUNT(*) FROM pets")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	if result.(db.QueryResult).Data[0][0] != "2" {
		t.Errorf("Expected 2 rows loaded")
	}
}

func TestCLILoadDatasetDirectory(t *testing.T) {
	cli := setupTestCLI(t)

	dir := t.TempDir()
	files := map[string]string{
		"pets.csv":   "name,age\nRex,4\n",
		"owners.csv": "name,city\nAlice,Oslo\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	if err := cli.loadDataset(dir); err != nil {
		t.Fatalf("loadDataset failed: %v", err)
	}

	for _, table := range []string{"pets", "owners"} {
		if _, err := cli.session.Execute("SELECT * FROM " + table); err != nil {
			t.Errorf("Table %s not loaded: %v", table, err)
		}
	}
}

func TestCLILoadDatasetMissing(t *testing.T) {
	cli := setupTestCLI(t)

	if err := cli.loadDataset("nonexistent.csv"); err == nil {
		t.Error("Expected error for missing dataset")
	}
}

func TestCLIAddToHistory(t *testing.T) {
	cli := setupTestCLI(t)

	cli.addToHistory("SELECT * FROM test")
	cli.addToHistory("INSERT INTO test VALUES (1)")

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(cli.history))
	}

	// Adding duplicate of last command should not increase count
	cli.addToHistory("INSERT INTO test VALUES (1)")
	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries after duplicate, got %d", len(cli.history))
	}
}

func TestCLIHistoryLimit(t *testing.T) {
	cli := setupTestCLI(t)

	// Add more than 1000 entries
	for i := 0; i < 1100; i++ {
		cli.addToHistory("SELECT " + string(rune(i)))
	}

	if len(cli.history) > 1000 {
		t.Errorf("Expected history to be limited to 1000, got %d", len(cli.history))
	}
}

func TestCLIGetPrompt(t *testing.T) {
	cli := setupTestCLI(t)

	// Normal prompt
	prompt := cli.getPrompt(false)
	if !strings.Contains(prompt, "csvdb") {
		t.Error("Expected prompt to contain 'csvdb'")
	}

	// Multi-line prompt
	prompt = cli.getPrompt(true)
	if !strings.Contains(prompt, "...>") {
		t.Error("Expected multi-line prompt to contain '...>'")
	}
}

func TestCLIHandleCommand(t *testing.T) {
	cli := setupTestCLI(t)

	tests := []struct {
		command  string
		expected bool // should return true (command handled)
	}{
		{".help", true},
		{".version", true},
		{".history", true},
		{".tables", true},
		{".unknown", true}, // Unknown commands are still handled (with error message)
	}

	for _, test := range tests {
		result := cli.handleCommand(test.command)
		if result != test.expected {
			t.Errorf("handleCommand(%s) = %v, expected %v", test.command, result, test.expected)
		}
	}
}

func TestCLIFetchSize(t *testing.T) {
	cli := setupTestCLI(t)

	cli.handleCommand(".fetchsize 100")
	if cli.fetchSize != 100 {
		t.Errorf("Expected fetch size 100, got %d", cli.fetchSize)
	}

	cli.handleCommand(".fetchsize 0")
	if cli.fetchSize != 0 {
		t.Errorf("Expected paging disabled, got %d", cli.fetchSize)
	}

	// Invalid values leave the setting untouched
	cli.handleCommand(".fetchsize 50")
	cli.handleCommand(".fetchsize abc")
	cli.handleCommand(".fetchsize -1")
	if cli.fetchSize != 50 {
		t.Errorf("Expected fetch size to stay 50, got %d", cli.fetchSize)
	}
}

func TestCLIExecutePaged(t *testing.T) {
	cli := setupTestCLI(t)

	if _, err := cli.session.Execute("CREATE TABLE nums (n INTEGER)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := cli.session.Execute("INSERT INTO nums SELECT * FROM range(10)"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}

	cli.fetchSize = 4
	if err := cli.executePaged("SELECT n FROM nums ORDER BY n"); err != nil {
		t.Fatalf("executePaged failed: %v", err)
	}
}

func TestIsSelect(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"select * from t", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"INSERT INTO t VALUES (1)", false},
		{"DROP TABLE t", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isSelect(tt.sql); got != tt.want {
			t.Errorf("isSelect(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}

func TestVersionVariable(t *testing.T) {
	// Test that Version variable exists and has a default value
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"single statement", "SELECT * FROM test", 1},
		{"two statements", "SELECT * FROM a; SELECT * FROM b", 2},
		{"with semicolons", "INSERT INTO t VALUES (1); INSERT INTO t VALUES (2);", 2},
		{"with comments", "-- comment\nSELECT * FROM test", 1},
		{"multiline", "CREATE TABLE t (\n  id INTEGER,\n  name VARCHAR\n);", 1},
		{"empty", "", 0},
		{"only semicolons", ";;;", 0},
		{"string with semicolon", "INSERT INTO t (s) VALUES ('a;b')", 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := splitStatements(test.input)
			if len(result) != test.expected {
				t.Errorf("splitStatements(%q) = %d statements, expected %d", test.input, len(result), test.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"exact", 5, "exact"},
		{"ab", 10, "ab"},
	}

	for _, test := range tests {
		result := truncate(test.input, test.max)
		if result != test.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", test.input, test.max, result, test.expected)
		}
	}
}

func TestImportFile(t *testing.T) {
	cli := setupTestCLI(t)

	sqlPath := filepath.Join(t.TempDir(), "seed.sql")
	script := `-- seed data
CREATE TABLE products (id INTEGER, name VARCHAR, price DOUBLE);
INSERT INTO products VALUES (1, 'Widget', 9.99);
INSERT INTO products VALUES (2, 'Gadget', 19.99);
INSERT INTO products VALUES (3, 'Gizmo', 4.50);
SELECT * FROM products;
`
	if err := os.WriteFile(sqlPath, []byte(script), 0644); err != nil {
		t.Fatalf("Failed to write SQL file: %v", err)
	}

	if err := cli.importFile(sqlPath); err != nil {
		t.Fatalf("importFile failed: %v", err)
	}

	result, err := cli.session.Execute("SELECT COUNT(*) FROM products")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	if result.(db.QueryResult).Data[0][0] != "3" {
		t.Errorf("Expected 3 products, got %s", result.(db.QueryResult).Data[0][0])
	}
}

func TestImportFileNotFound(t *testing.T) {
	cli := setupTestCLI(t)

	err := cli.importFile("nonexistent.sql")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestImportCommand(t *testing.T) {
	cli := setupTestCLI(t)

	// Test .import command handling
	result := cli.handleCommand(".import")
	if !result {
		t.Error("Expected .import to be handled")
	}
}

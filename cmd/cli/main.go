package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jstrand/CsvDB"
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/dataset"
	"github.com/jstrand/CsvDB/db"
	"github.com/jstrand/CsvDB/store"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the CLI state
type CLI struct {
	session     *db.Session
	loader      *dataset.Loader
	history     []string
	historyFile string
	fetchSize   int // page SELECTs through a cursor when > 0
}

func main() {
	dbPath := flag.String("db", "", "Database file path (memory if empty)")
	loadPath := flag.String("load", "", "CSV file or directory to load at startup")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	userName := flag.String("name", "CsvDB", "User name for the session")
	userEmail := flag.String("email", "cli@csvdb.local", "User email for the session")
	flag.Parse()

	printBanner()

	var st *store.Store
	var err error
	if *dbPath == "" {
		fmt.Printf("%sUsing in-memory store%s\n", SuccessColor, ResetColor)
		st, err = store.NewMemoryStore()
	} else {
		fmt.Printf("%sUsing database file: %s%s\n", SuccessColor, *dbPath, ResetColor)
		st, err = store.NewFileStore(*dbPath)
	}
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	defer st.Close()

	instance := CsvDB.Open(st)
	session := instance.Session(core.Identity{
		Name:  *userName,
		Email: *userEmail,
	})

	cli := &CLI{
		session:     session,
		loader:      instance.Loader(),
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}

	if *loadPath != "" {
		if err := cli.loadDataset(*loadPath); err != nil {
			fmt.Printf("%sError loading dataset: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
	}

	cli.loadHistory()

	// Execute SQL file if provided
	if *sqlFile != "" {
		err := cli.importFile(*sqlFile)
		if err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.run()
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("CsvDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   SQL Workbench for CSV Datasets      ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		// Show prompt
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		// Read input
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		// Handle empty input
		if strings.TrimSpace(input) == "" {
			continue
		}

		// Check for special commands (only when not in multi-line mode)
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		// Check if the statement is complete (ends with ;)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		// Execute the complete statement
		sql := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(sql) == "" {
			continue
		}

		// Add to history
		cli.addToHistory(sql + ";")

		cli.execute(sql)
	}
}

// execute runs one statement, either materialized or paged through a
// cursor when a fetch size is set.
func (cli *CLI) execute(sql string) {
	if cli.fetchSize > 0 && isSelect(sql) {
		if err := cli.executePaged(sql); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}
		return
	}

	result, err := cli.session.Execute(sql)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display()
}

// executePaged streams a result set batch by batch instead of
// materializing it.
func (cli *CLI) executePaged(sql string) error {
	cursor, err := cli.session.OpenCursor(sql)
	if err != nil {
		return err
	}
	defer cursor.Close()

	total := 0
	for cursor.HasMore() {
		batch, err := cursor.FetchBatch(cli.fetchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		grid := db.NewGrid(os.Stdout)
		grid.Header(cursor.Columns())
		grid.Bulk(batch)
		grid.Render()
		total += len(batch)
	}

	fmt.Printf("%d rows (batches of %d)\n", total, cli.fetchSize)
	return nil
}

func isSelect(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "FROM":
		return true
	}
	return false
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%scsvdb>%s ", PromptColor, ResetColor)
}

func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".schema":
		if len(parts) > 1 {
			cli.showSchema(parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .schema <table>%s\n", ErrorColor, ResetColor)
		}

	case ".load":
		if len(parts) > 1 {
			if err := cli.loadDataset(parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .load <file.csv | directory>%s\n", ErrorColor, ResetColor)
		}

	case ".fetchsize":
		if len(parts) > 1 {
			size, err := strconv.Atoi(parts[1])
			if err != nil || size < 0 {
				fmt.Printf("%s✗ Usage: .fetchsize <n> (0 disables paging)%s\n", ErrorColor, ResetColor)
			} else {
				cli.fetchSize = size
				if size == 0 {
					fmt.Printf("%s✓ Paging disabled%s\n", SuccessColor, ResetColor)
				} else {
					fmt.Printf("%s✓ Paging SELECTs in batches of %d%s\n", SuccessColor, size, ResetColor)
				}
			}
		} else {
			fmt.Printf("Current fetch size: %d\n", cli.fetchSize)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("CsvDB version %s\n", Version)

	case ".import":
		if len(parts) > 1 {
			err := cli.importFile(parts[1])
			if err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, command, ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the CLI")
	fmt.Println("  .tables          List loaded tables")
	fmt.Println("  .schema <table>  Show the columns of a table")
	fmt.Println("  .load <path>     Load a CSV file or directory of CSV files")
	fmt.Println("  .fetchsize <n>   Page SELECT results in batches of n rows")
	fmt.Println("  .import <file>   Execute SQL statements from a file")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  SELECT <cols> FROM <table> [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT n];")
	fmt.Println("  SELECT DISTINCT <cols> FROM <table>;")
	fmt.Println("  INSERT INTO <table> VALUES (<vals>);")
	fmt.Println("  UPDATE <table> SET <col>=<val> WHERE ...;")
	fmt.Println("  DELETE FROM <table> WHERE ...;")
	fmt.Println("  CREATE TABLE <table> (<column> <type>, ...);")
	fmt.Println("  DROP TABLE <table>;")
	fmt.Println("  DESCRIBE <table>;")
	fmt.Println("  SHOW TABLES;")
	fmt.Println()
	fmt.Printf("%s%sAggregates:%s SUM, AVG, MIN, MAX, COUNT, GROUP BY, HAVING\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%sPatterns:%s LIKE with %% and _ wildcards\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
}

func (cli *CLI) showTables() {
	result, err := cli.session.Execute("SHOW TABLES")
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display()
}

func (cli *CLI) showSchema(table string) {
	result, err := cli.session.Execute(fmt.Sprintf("DESCRIBE %s", table))
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display()
}

// loadDataset loads one CSV file or every CSV file in a directory.
func (cli *CLI) loadDataset(path string) error {
	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		loaded, err := cli.loader.LoadDir(ctx, path)
		if err != nil {
			return err
		}
		for table, rows := range loaded {
			fmt.Printf("%s✓ Loaded %s (%d rows)%s\n", SuccessColor, table, rows, ResetColor)
		}
		return nil
	}

	table, rows, err := cli.loader.Load(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("%s✓ Loaded %s (%d rows)%s\n", SuccessColor, table, rows, ResetColor)
	return nil
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	// Limit history size
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".csvdb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	// Save last 1000 entries
	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	statements := splitStatements(content)

	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}

		result, err := cli.session.Execute(stmt)
		if err != nil {
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %v\n", err)
			errorCount++
		} else {
			successCount++
			// Compact output based on result type
			switch r := result.(type) {
			case db.QueryResult:
				fmt.Printf("%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RecordsRead, ResetColor)
			case db.ExecResult:
				detailStr := ""
				if r.RowsAffected > 0 {
					detailStr = fmt.Sprintf(" (%d affected)", r.RowsAffected)
				}
				fmt.Printf("%s[%d] ✓ %s%s%s\n", SuccessColor, i+1, truncate(stmt, 50), detailStr, ResetColor)
			default:
				fmt.Printf("%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
			}
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// splitStatements splits SQL content into individual statements
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		// Handle string literals
		if (ch == '\'' || ch == '"') && (i == 0 || content[i-1] != '\\') {
			if !inString {
				inString = true
				stringChar = ch
			} else if ch == stringChar {
				inString = false
			}
		}

		// Handle comments
		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			// Skip to end of line
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		// Statement separator
		if !inString && ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	// Handle last statement without semicolon
	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

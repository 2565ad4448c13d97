package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v6"
	"golang.org/x/sync/errgroup"

	"github.com/jstrand/CsvDB/store"
)

// loadConcurrency bounds parallel file loads in LoadDir.
const loadConcurrency = 4

// Loader reads tabular sources and writes them into a Store, one table per
// file. Loads are wholesale: an existing table with the same name is
// replaced.
type Loader struct {
	store *store.Store
	s3    *S3Config
}

func NewLoader(st *store.Store) *Loader {
	return &Loader{store: st}
}

// WithS3Config sets credentials for s3:// sources and targets.
func (l *Loader) WithS3Config(cfg *S3Config) *Loader {
	l.s3 = cfg
	return l
}

// LoadReader loads a CSV stream into the named table and reports rows
// written.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, table string) (int64, error) {
	schema, rows, err := ReadCSV(r, table)
	if err != nil {
		return 0, err
	}
	return l.store.WriteTable(ctx, schema, rows)
}

// Load loads a CSV source (local path, file://, http(s)://, or s3://) into a
// table named after the file. It returns the table name and rows written.
func (l *Loader) Load(ctx context.Context, path string) (string, int64, error) {
	reader, err := OpenSource(ctx, path, l.s3)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer reader.Close()

	table := TableName(path)
	written, err := l.LoadReader(ctx, reader, table)
	if err != nil {
		return "", 0, err
	}
	return table, written, nil
}

// LoadInto is Load with an explicit table name.
func (l *Loader) LoadInto(ctx context.Context, path, table string) (int64, error) {
	reader, err := OpenSource(ctx, path, l.s3)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer reader.Close()

	return l.LoadReader(ctx, reader, table)
}

// LoadDir loads every .csv file in a local directory, a few files at a
// time. It returns rows written per table.
func (l *Loader) LoadDir(ctx context.Context, dir string) (map[string]int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	results := make(map[string]int64)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for _, entry := range entries {
		if entry.IsDir() || !isCSV(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			table, written, err := l.Load(ctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			results[table] = written
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}
	return results, nil
}

// LoadFS loads every .csv file under dir in a billy filesystem, recursing
// into subdirectories. Used for git dataset work trees and in-memory tests.
func (l *Loader) LoadFS(ctx context.Context, fsys billy.Filesystem, dir string) (map[string]int64, error) {
	paths, err := findCSV(fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files found under %s", dir)
	}

	results := make(map[string]int64)
	for _, path := range paths {
		file, err := fsys.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		table := TableName(path)
		written, err := l.LoadReader(ctx, file, table)
		file.Close()
		if err != nil {
			return nil, err
		}
		results[table] = written
	}
	return results, nil
}

func findCSV(fsys billy.Filesystem, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		path := fsys.Join(dir, entry.Name())
		if entry.IsDir() {
			if entry.Name() == ".git" {
				continue
			}
			nested, err := findCSV(fsys, path)
			if err != nil {
				return nil, err
			}
			paths = append(paths, nested...)
			continue
		}
		if isCSV(entry.Name()) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// Export writes a table (or any SELECT over it) to a CSV target (local
// path, file://, or s3://). It returns rows exported.
func (l *Loader) Export(ctx context.Context, table, path string) (int64, error) {
	rows, err := l.store.Query(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return 0, err
	}

	target, err := CreateTarget(ctx, path, l.s3)
	if err != nil {
		return 0, fmt.Errorf("failed to open target %s: %w", path, err)
	}

	writer := csv.NewWriter(target)
	if err := writer.Write(rows.Columns); err != nil {
		target.Close()
		return 0, err
	}
	for _, row := range rows.Data {
		if err := writer.Write(row); err != nil {
			target.Close()
			return 0, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		target.Close()
		return 0, err
	}

	if err := target.Close(); err != nil {
		return 0, err
	}
	return int64(len(rows.Data)), nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// TableName derives a table name from a source path: the base name without
// the .csv extension, with characters outside [A-Za-z0-9_] replaced by
// underscores. users.csv becomes users.
func TableName(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if isCSV(base) {
		base = base[:len(base)-len(".csv")]
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name := b.String()
	if name == "" {
		return "table"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}

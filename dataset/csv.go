package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jstrand/CsvDB/core"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// ReadCSV parses a CSV stream into a schema descriptor and typed rows ready
// for the store appender. The first record is the header. Column types are
// inferred from the data; empty cells load as NULL.
func ReadCSV(r io.Reader, name string) (core.Table, [][]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return core.Table{}, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return core.Table{}, nil, fmt.Errorf("%s: empty CSV input", name)
	}

	header := records[0]
	body := records[1:]

	table := core.Table{Name: name}
	seen := make(map[string]bool)
	for i, colName := range header {
		colName = strings.TrimSpace(colName)
		if colName == "" {
			return core.Table{}, nil, fmt.Errorf("%s: empty column name at position %d", name, i+1)
		}
		if seen[colName] {
			return core.Table{}, nil, fmt.Errorf("%s: duplicate column name %q", name, colName)
		}
		seen[colName] = true
		table.Columns = append(table.Columns, core.Column{
			Name: colName,
			Type: inferColumnType(body, i),
		})
	}

	rows := make([][]any, len(body))
	for rowIdx, record := range body {
		if len(record) != len(header) {
			return core.Table{}, nil, fmt.Errorf("%s: row %d has %d fields, expected %d",
				name, rowIdx+2, len(record), len(header))
		}

		row := make([]any, len(record))
		for colIdx, cell := range record {
			value, err := coerce(cell, table.Columns[colIdx].Type)
			if err != nil {
				return core.Table{}, nil, fmt.Errorf("%s: row %d column %s: %w",
					name, rowIdx+2, table.Columns[colIdx].Name, err)
			}
			row[colIdx] = value
		}
		rows[rowIdx] = row
	}

	return table, rows, nil
}

// inferColumnType sniffs the narrowest type that fits every non-empty cell
// in a column. VARCHAR is the fallback.
func inferColumnType(rows [][]string, col int) core.ColumnType {
	allBool := true
	allInt := true
	allFloat := true
	allDate := true
	allTimestamp := true
	sawValue := false

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		sawValue = true

		if allBool && !isBool(cell) {
			allBool = false
		}
		if allInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allFloat = false
			}
		}
		if allDate {
			if _, err := time.Parse(dateLayout, cell); err != nil {
				allDate = false
			}
		}
		if allTimestamp {
			if _, err := parseTimestamp(cell); err != nil {
				allTimestamp = false
			}
		}

		if !allBool && !allInt && !allFloat && !allDate && !allTimestamp {
			return core.StringType
		}
	}

	// A column with no values at all stays VARCHAR.
	if !sawValue {
		return core.StringType
	}

	switch {
	case allBool:
		return core.BoolType
	case allInt:
		return core.IntType
	case allFloat:
		return core.FloatType
	case allDate:
		return core.DateType
	case allTimestamp:
		return core.TimestampType
	default:
		return core.StringType
	}
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// coerce converts a CSV cell to the Go value the appender expects for the
// column type. Empty cells become NULL.
func coerce(cell string, colType core.ColumnType) (any, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	switch colType {
	case core.IntType:
		return strconv.ParseInt(cell, 10, 64)
	case core.FloatType:
		return strconv.ParseFloat(cell, 64)
	case core.BoolType:
		return strconv.ParseBool(strings.ToLower(cell))
	case core.DateType:
		return time.Parse(dateLayout, cell)
	case core.TimestampType:
		return parseTimestamp(cell)
	default:
		return cell, nil
	}
}

package db

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Grid provides basic result-table formatting without external dependencies.
// Numeric columns are right-aligned.
type Grid struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

// NewGrid creates a new grid writer
func NewGrid(w io.Writer) *Grid {
	return &Grid{
		writer: w,
		rows:   make([][]string, 0),
	}
}

// Header sets the column headers
func (g *Grid) Header(headers []string) {
	g.headers = headers
}

// Row adds a single row
func (g *Grid) Row(row []string) {
	g.rows = append(g.rows, row)
}

// Bulk adds multiple rows
func (g *Grid) Bulk(rows [][]string) {
	g.rows = append(g.rows, rows...)
}

// Render outputs the formatted grid
func (g *Grid) Render() {
	if len(g.headers) == 0 && len(g.rows) == 0 {
		return
	}

	widths := g.calculateWidths()
	numeric := g.numericColumns()
	separator := g.buildSeparator(widths)

	fmt.Fprintln(g.writer, separator)

	if len(g.headers) > 0 {
		fmt.Fprintln(g.writer, g.formatRow(g.headers, widths, nil))
		fmt.Fprintln(g.writer, separator)
	}

	for _, row := range g.rows {
		fmt.Fprintln(g.writer, g.formatRow(row, widths, numeric))
	}

	fmt.Fprintln(g.writer, separator)
}

// calculateWidths determines the width needed for each column
func (g *Grid) calculateWidths() []int {
	numCols := len(g.headers)
	for _, row := range g.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)

	for i, h := range g.headers {
		if len(h) > widths[i] {
			widths[i] = len(h)
		}
	}

	for _, row := range g.rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Minimum width of 1
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}

	return widths
}

// numericColumns marks columns whose non-empty cells all parse as numbers
func (g *Grid) numericColumns() []bool {
	numCols := len(g.headers)
	for _, row := range g.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	numeric := make([]bool, numCols)
	for i := range numeric {
		numeric[i] = len(g.rows) > 0
	}

	for _, row := range g.rows {
		for i, cell := range row {
			if i >= numCols || cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[i] = false
			}
		}
	}
	return numeric
}

// buildSeparator creates the horizontal line
func (g *Grid) buildSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// formatRow formats a single row with proper padding
func (g *Grid) formatRow(row []string, widths []int, numeric []bool) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", w-len(cell))
		if numeric != nil && i < len(numeric) && numeric[i] {
			parts[i] = " " + pad + cell + " "
		} else {
			parts[i] = " " + cell + pad + " "
		}
	}
	return "|" + strings.Join(parts, "|") + "|"
}

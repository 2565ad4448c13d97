package db

import (
	"fmt"
	"os"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	ExecResultType
)

type Result interface {
	Type() ResultType
	Display()
}

// QueryResult is a fully materialized result set.
type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
}

// ExecResult reports a statement that returned no rows.
type ExecResult struct {
	RowsAffected     int64
	ExecutionTimeSec float64
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result ExecResult) Type() ResultType {
	return ExecResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result ExecResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// throughput renders a rows-per-second suffix, or "" when not measurable.
func throughput(rows int, secs float64) string {
	if secs <= 0 || rows <= 0 {
		return ""
	}
	rate := float64(rows) / secs
	if rate >= 1000000 {
		return fmt.Sprintf(", %.1fM rows/s", rate/1000000)
	} else if rate >= 1000 {
		return fmt.Sprintf(", %.1fK rows/s", rate/1000)
	}
	return fmt.Sprintf(", %.0f rows/s", rate)
}

func (result QueryResult) Display() {
	// Show data table first if there is data
	if len(result.Data) > 0 {
		grid := NewGrid(os.Stdout)
		grid.Header(result.Columns)
		grid.Bulk(result.Data)
		grid.Render()
	}

	// Show compact stats line after data
	fmt.Printf("%d rows (%s%s)\n", result.RecordsRead,
		result.ExecutionTime(), throughput(result.RecordsRead, result.ExecutionTimeSec))
}

func (result ExecResult) Display() {
	if result.RowsAffected > 0 {
		fmt.Printf("%d row(s) affected (%s)\n", result.RowsAffected, result.ExecutionTime())
		return
	}
	fmt.Printf("OK (%s)\n", result.ExecutionTime())
}

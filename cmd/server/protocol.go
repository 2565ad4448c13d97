// Package main provides a TCP SQL server for CsvDB.
package main

import (
	"github.com/goccy/go-json"
)

// Response represents the server's response to a command.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "exec", "cursor", "fetch", "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains a fully materialized result set.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

// ExecResponse contains the outcome of a statement that returned no rows.
type ExecResponse struct {
	RowsAffected int64   `json:"rows_affected"`
	TimeMs       float64 `json:"time_ms"`
}

// CursorResponse is returned by DECLARE.
type CursorResponse struct {
	CursorID string   `json:"cursor_id"`
	Columns  []string `json:"columns"`
}

// FetchResponse is returned by FETCH and carries one batch.
type FetchResponse struct {
	Data    [][]string `json:"data"`
	HasMore bool       `json:"has_more"`
}

// AuthResponse is returned by AUTH.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a trailing newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

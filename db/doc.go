// Package db provides session-level SQL execution on top of a store.
// A Session runs statements for an identity and wraps results in a
// displayable Result, either a materialized QueryResult or an
// ExecResult for statements that return no rows.
package db

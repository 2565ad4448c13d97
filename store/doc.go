// Package store provides the embedded database layer for CsvDB.
//
// A Store wraps a single DuckDB instance, either transient in-memory or
// backed by a file. The SQL dialect, storage format, and query planning all
// belong to DuckDB; this package only manages the handle lifecycle, bulk
// table writes, and result retrieval.
//
// # Opening a store
//
//	st, err := store.NewMemoryStore()      // transient
//	st, err := store.NewFileStore("x.db")  // file-backed
//	defer st.Close()
//
// # Writing tables
//
//	table := core.Table{Name: "users", Columns: ...}
//	written, err := st.WriteTable(ctx, table, rows)
//
// Rows go through the DuckDB appender, so bulk loads do not pay per-row
// statement overhead.
//
// # Queries
//
// Small results can be materialized in one call:
//
//	rows, err := st.Query(ctx, "SELECT * FROM users WHERE age > 25")
//
// Large results should be paged through a cursor, which keeps at most one
// batch in memory at a time:
//
//	cursor, err := st.OpenCursor(ctx, "SELECT * FROM events")
//	defer cursor.Close()
//	for cursor.HasMore() {
//	    batch, err := cursor.FetchBatch(500)
//	    ...
//	}
package store

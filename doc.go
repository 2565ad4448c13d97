// Package CsvDB provides an embedded SQL workbench for CSV datasets.
//
// CsvDB loads CSV files into an embedded analytical engine, inferring
// column types from the data, and runs standard SQL against the loaded
// tables. Results come back fully materialized or through a forward-only
// cursor that fetches rows in fixed-size batches, which keeps memory
// bounded on large result sets.
//
// # Quick Start
//
// Create an in-memory database and load a CSV file:
//
//	st, _ := store.NewMemoryStore()
//	defer st.Close()
//
//	db := CsvDB.Open(st)
//	table, rows, _ := db.Loader().Load(ctx, "pets.csv")
//
//	session := db.Session(core.Identity{Name: "App", Email: "app@example.com"})
//	result, _ := session.Execute("SELECT species, COUNT(*) FROM pets GROUP BY species")
//	result.Display()
//
// Large results page through a cursor:
//
//	cursor, _ := session.OpenCursor("SELECT * FROM pets ORDER BY name")
//	defer cursor.Close()
//	for cursor.HasMore() {
//		batch, _ := cursor.FetchBatch(500)
//		process(batch)
//	}
//
// # SQL
//
// Statements pass through to the engine unchanged, so the full DuckDB
// dialect is available, including:
//   - SELECT with DISTINCT, WHERE, LIKE
//   - GROUP BY and aggregate functions
//   - ORDER BY, LIMIT, OFFSET
//   - JOINs and subqueries
//   - INSERT, UPDATE, DELETE, CREATE/DROP TABLE
//
// Datasets can also be loaded from directories, HTTP and S3 URLs, and
// git repositories; see the dataset package.
package CsvDB

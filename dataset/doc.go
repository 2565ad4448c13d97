// Package dataset loads tabular sources into a CsvDB store.
//
// Each CSV source becomes one table, named after the file, with the schema
// inferred from the data. Loads are wholesale: reloading a source replaces
// its table.
//
// # Sources
//
// Sources are addressed by path or URL:
//
//	loader := dataset.NewLoader(st)
//	table, n, err := loader.Load(ctx, "users.csv")
//	table, n, err = loader.Load(ctx, "https://example.com/orders.csv")
//	table, n, err = loader.Load(ctx, "s3://bucket/data/events.csv")
//
// Whole directories load concurrently:
//
//	results, err := loader.LoadDir(ctx, "./data")
//
// A git repository of CSV files can be cloned (in-memory) and loaded in one
// step:
//
//	results, err := loader.LoadGit(ctx, "https://github.com/org/datasets", "main", nil)
//
// # Schema inference
//
// Column types are sniffed from every non-empty cell: BOOLEAN, BIGINT,
// DOUBLE, DATE, and TIMESTAMP are tried in that order, with VARCHAR as the
// fallback. Empty cells load as NULL.
//
// # Export
//
// Tables can be written back out as CSV, locally or to S3:
//
//	n, err := loader.Export(ctx, "users", "s3://bucket/out/users.csv")
package dataset

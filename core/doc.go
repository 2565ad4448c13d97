// Package core provides core types used throughout CsvDB.
//
// The package defines fundamental types like Table, Column, Identity, and
// the column type constants shared by the store, dataset, and db packages.
//
// # Column Types
//
// Column types correspond to the DuckDB types CsvDB infers from CSV input:
//   - StringType: VARCHAR
//   - IntType: BIGINT
//   - FloatType: DOUBLE
//   - BoolType: BOOLEAN
//   - DateType: DATE
//   - TimestampType: TIMESTAMP
//
// # Table Definition
//
//	table := core.Table{
//	    Name: "users",
//	    Columns: []core.Column{
//	        {Name: "id", Type: core.IntType},
//	        {Name: "name", Type: core.StringType},
//	        {Name: "active", Type: core.BoolType},
//	    },
//	}
//
// # Identity
//
// Identity identifies the authenticated user of a server connection:
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
package core

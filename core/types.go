package core

type ColumnType int

const (
	StringType ColumnType = iota
	IntType
	FloatType
	BoolType
	DateType
	TimestampType
)

// SQLType returns the DuckDB type name for DDL generation.
func (t ColumnType) SQLType() string {
	switch t {
	case IntType:
		return "BIGINT"
	case FloatType:
		return "DOUBLE"
	case BoolType:
		return "BOOLEAN"
	case DateType:
		return "DATE"
	case TimestampType:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// ParseColumnType maps a DuckDB type name back to a ColumnType.
func ParseColumnType(name string) ColumnType {
	switch name {
	case "BIGINT", "INTEGER", "SMALLINT", "TINYINT", "HUGEINT", "UBIGINT", "UINTEGER":
		return IntType
	case "DOUBLE", "FLOAT", "REAL", "DECIMAL":
		return FloatType
	case "BOOLEAN":
		return BoolType
	case "DATE":
		return DateType
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ":
		return TimestampType
	default:
		return StringType
	}
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Identity identifies the user a server connection acts as.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

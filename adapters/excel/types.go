package excel

// ExcelData represents a file as trimmed strings, every row as wide as the header
type ExcelData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows
}

// ColumnType is the inferred type of a column
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnString  ColumnType = "string"
	ColumnEmpty   ColumnType = "empty"
)

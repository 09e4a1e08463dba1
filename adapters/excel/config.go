package excel

// ExcelConfig holds configuration for reading a tabular data file
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the xlsx sheet to read; empty means the first sheet
	Sheet string `json:"sheet"`
	// DataPath locates the record array in a JSON document (gjson syntax);
	// empty means the document itself
	DataPath string `json:"data_path"`
	// Comma is the CSV field delimiter
	Comma rune `json:"comma"`
	// NumericColumns forces columns to numeric even when cells fail to parse;
	// those cells become NaN
	NumericColumns []string `json:"numeric_columns"`
}

// DefaultExcelConfig returns sensible defaults for file processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Comma: ',',
	}
}

package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx", "csv" or "json"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	config := DefaultExcelConfig()
	config.FilePath = filePath
	return NewDataReaderWithConfig(config)
}

// NewDataReaderWithConfig creates a reader from an explicit configuration
func NewDataReaderWithConfig(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	switch ext {
	case ".csv":
		fileType = "csv"
	case ".json":
		fileType = "json"
	}
	if config.Comma == 0 {
		config.Comma = ','
	}
	return &DataReader{config: config, fileType: fileType, logger: internal.DefaultLogger}
}

// WithLogger sets the logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReadFrame reads the file into a frame. Delimited and spreadsheet cells get
// inferred column types; JSON values keep their own types.
func (r *DataReader) ReadFrame() (*dataset.Frame, error) {
	if r.fileType == "json" {
		return r.readJSONFrame()
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return r.ToFrame(data), nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %s read in %s (%d rows)", sheet, time.Since(startTime), len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Comma
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] CSV file read in %s (%d rows)", time.Since(readStart), len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows trims cells and pads short rows to the header width.
// Spreadsheets drop trailing empty cells, so short rows are expected.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			return nil, fmt.Errorf("%w: column %d has an empty header", core.ErrInvalidFeatureSpec, i+1)
		}
		if seen[headers[i]] {
			return nil, fmt.Errorf("%w: duplicate column header %q", core.ErrInvalidFeatureSpec, headers[i])
		}
		seen[headers[i]] = true
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) > len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns",
				core.ErrInvalidFeatureSpec, i+1, len(row), len(headers))
		}
		cells := make([]string, len(headers))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, cells)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// InferColumnTypes classifies every column: numeric when each non-empty cell
// parses as a float, empty when no cell has a value, string otherwise.
func (r *DataReader) InferColumnTypes(data *ExcelData) []ColumnType {
	types := make([]ColumnType, len(data.Headers))
	for j, header := range data.Headers {
		if slices.Contains(r.config.NumericColumns, header) {
			types[j] = ColumnNumeric
			continue
		}

		types[j] = ColumnEmpty
		for _, row := range data.Rows {
			cell := row[j]
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				types[j] = ColumnString
				break
			}
			types[j] = ColumnNumeric
		}
	}
	return types
}

// ToFrame converts string data into typed cells. Empty cells become nil.
func (r *DataReader) ToFrame(data *ExcelData) *dataset.Frame {
	types := r.InferColumnTypes(data)

	rows := make([][]any, len(data.Rows))
	for i, raw := range data.Rows {
		row := make([]any, len(raw))
		for j, cell := range raw {
			switch {
			case cell == "":
				row[j] = nil
			case types[j] == ColumnNumeric:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					v = math.NaN()
				}
				row[j] = v
			default:
				row[j] = cell
			}
		}
		rows[i] = row
	}

	for j, t := range types {
		if t == ColumnEmpty {
			r.logger.Warn("[DataReader] column %s has no values", data.Headers[j])
		}
	}

	return dataset.NewFrame(append([]string(nil), data.Headers...), rows)
}

// ExtractWeights removes the named column from the frame and returns it as
// sample weights. Every cell must be numeric.
func ExtractWeights(frame *dataset.Frame, column string) ([]float64, error) {
	return extractNumeric(frame, column, "weight", core.ErrInvalidWeights)
}

// ExtractTarget removes the named column from the frame and returns it as
// the observed target. Every cell must be numeric.
func ExtractTarget(frame *dataset.Frame, column string) ([]float64, error) {
	return extractNumeric(frame, column, "target", core.ErrInvalidTarget)
}

// extractNumeric drops the column only when every cell converts
func extractNumeric(frame *dataset.Frame, column, role string, invalid error) ([]float64, error) {
	j, ok := frame.ColumnIndex(column)
	if !ok {
		return nil, core.NewFeatureSpecError("%s column %q not found", role, column)
	}

	values := frame.Column(j)
	out := make([]float64, len(values))
	for i, v := range values {
		x, isNum := dataset.Float(v)
		if !isNum {
			return nil, fmt.Errorf("%w: row %d of column %q is not numeric", invalid, i+1, column)
		}
		out[i] = x
	}

	frame.DropColumn(j)
	return out, nil
}

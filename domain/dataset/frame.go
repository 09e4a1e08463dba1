package dataset

import (
	"fmt"

	"gohstat/domain/core"
)

// Frame is a row-major feature matrix. Cells hold numbers, strings, bools or
// nil for missing values. Column names are optional.
type Frame struct {
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows"`
}

// NewFrame creates a frame from named columns and rows. The rows are not copied.
func NewFrame(columns []string, rows [][]any) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

// NewNumericFrame builds a frame from a float matrix
func NewNumericFrame(columns []string, data [][]float64) *Frame {
	rows := make([][]any, len(data))
	for i, src := range data {
		row := make([]any, len(src))
		for j, v := range src {
			row[j] = v
		}
		rows[i] = row
	}
	return &Frame{Columns: columns, Rows: rows}
}

// AddColumn appends a column to the frame
func (f *Frame) AddColumn(name string, values []any) error {
	if len(f.Rows) == 0 {
		f.Rows = make([][]any, len(values))
	}
	if len(values) != len(f.Rows) {
		return fmt.Errorf("%w: column %q has %d values, frame has %d rows",
			core.ErrInvalidFeatureSpec, name, len(values), len(f.Rows))
	}

	for i, value := range values {
		f.Rows[i] = append(f.Rows[i], value)
	}
	if name != "" || len(f.Columns) > 0 {
		f.Columns = append(f.Columns, name)
	}
	return nil
}

// Validate ensures the frame is rectangular and consistent with its column names
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: frame is nil", core.ErrInvalidFeatureSpec)
	}
	if len(f.Rows) == 0 {
		return fmt.Errorf("%w: frame has no rows", core.ErrInvalidFeatureSpec)
	}

	colCount := len(f.Rows[0])
	if len(f.Columns) > 0 && len(f.Columns) != colCount {
		return fmt.Errorf("%w: %d column names for %d columns",
			core.ErrInvalidFeatureSpec, len(f.Columns), colCount)
	}

	for i, row := range f.Rows {
		if len(row) != colCount {
			return fmt.Errorf("%w: row %d has %d columns, expected %d",
				core.ErrInvalidFeatureSpec, i, len(row), colCount)
		}
	}

	return nil
}

// HasNames reports whether the columns carry names
func (f *Frame) HasNames() bool {
	return len(f.Columns) > 0
}

// ColumnIndex returns the position of a named column
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, col := range f.Columns {
		if col == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnName returns the name of column j, or its index when unnamed
func (f *Frame) ColumnName(j int) string {
	if j >= 0 && j < len(f.Columns) && f.Columns[j] != "" {
		return f.Columns[j]
	}
	return fmt.Sprintf("%d", j)
}

// Column returns a copy of column j
func (f *Frame) Column(j int) []any {
	data := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		data[i] = row[j]
	}
	return data
}

// FloatColumn returns column j as floats. ok is false if any cell is not numeric.
func (f *Frame) FloatColumn(j int) (data []float64, ok bool) {
	data = make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		v, isNum := Float(row[j])
		if !isNum {
			return nil, false
		}
		data[i] = v
	}
	return data, true
}

// RowCount returns the number of rows
func (f *Frame) RowCount() int {
	return len(f.Rows)
}

// ColumnCount returns the number of columns
func (f *Frame) ColumnCount() int {
	if len(f.Rows) > 0 {
		return len(f.Rows[0])
	}
	return len(f.Columns)
}

// Clone returns a deep row copy. Cell values are shared, they are immutable scalars.
func (f *Frame) Clone() *Frame {
	rows := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = append([]any(nil), row...)
	}
	return &Frame{Columns: append([]string(nil), f.Columns...), Rows: rows}
}

// SelectRows returns a deep copy of the given rows in the given order
func (f *Frame) SelectRows(indices []int) *Frame {
	rows := make([][]any, len(indices))
	for i, idx := range indices {
		rows[i] = append([]any(nil), f.Rows[idx]...)
	}
	return &Frame{Columns: append([]string(nil), f.Columns...), Rows: rows}
}

// SelectColumns returns the given columns of every row as a new row set
func (f *Frame) SelectColumns(indices []int) [][]any {
	out := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		sub := make([]any, len(indices))
		for k, j := range indices {
			sub[k] = row[j]
		}
		out[i] = sub
	}
	return out
}

// DropColumn removes column j and returns its values
func (f *Frame) DropColumn(j int) []any {
	values := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[j]
		f.Rows[i] = append(row[:j:j], row[j+1:]...)
	}
	if j < len(f.Columns) {
		f.Columns = append(f.Columns[:j:j], f.Columns[j+1:]...)
	}
	return values
}

// Split returns one frame per group holding the named columns in the given
// order, for models that take several inputs. Rows are copied.
func (f *Frame) Split(groups map[string][]string) (map[string]*Frame, error) {
	out := make(map[string]*Frame, len(groups))
	for key, names := range groups {
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: group %q has no columns", core.ErrInvalidFeatureSpec, key)
		}
		indices := make([]int, len(names))
		for k, name := range names {
			j, ok := f.ColumnIndex(name)
			if !ok {
				return nil, fmt.Errorf("%w: group %q references unknown column %q", core.ErrInvalidFeatureSpec, key, name)
			}
			indices[k] = j
		}
		out[key] = &Frame{Columns: append([]string(nil), names...), Rows: f.SelectColumns(indices)}
	}
	return out, nil
}

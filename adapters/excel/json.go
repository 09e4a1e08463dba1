package excel

import (
	"fmt"
	"os"

	"gohstat/domain/core"
	"gohstat/domain/dataset"

	"github.com/tidwall/gjson"
)

// readJSONFrame reads an array of records, located by the configured gjson
// path, into a frame. Columns appear in the order keys are first seen; a
// record missing a key gets nil. Nested values are kept as raw JSON strings.
func (r *DataReader) readJSONFrame() (*dataset.Frame, error) {
	body, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON file not found: %s", r.config.FilePath)
		}
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return r.parseRecords(body)
}

func (r *DataReader) parseRecords(body []byte) (*dataset.Frame, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON document")
	}

	data := gjson.ParseBytes(body)
	if r.config.DataPath != "" {
		data = gjson.GetBytes(body, r.config.DataPath)
		if !data.Exists() {
			return nil, fmt.Errorf("data path '%s' not found in document", r.config.DataPath)
		}
	}

	var records []gjson.Result
	switch {
	case data.IsArray():
		records = data.Array()
	case data.IsObject():
		records = []gjson.Result{data}
	default:
		return nil, fmt.Errorf("data path '%s' is not an array or object", r.config.DataPath)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("JSON document has no records")
	}

	index := make(map[string]int)
	var columns []string
	cells := make([]map[int]any, len(records))
	for i, record := range records {
		if !record.IsObject() {
			return nil, fmt.Errorf("%w: record %d is not an object", core.ErrInvalidFeatureSpec, i)
		}
		cells[i] = make(map[int]any)
		record.ForEach(func(key, value gjson.Result) bool {
			j, ok := index[key.String()]
			if !ok {
				j = len(columns)
				index[key.String()] = j
				columns = append(columns, key.String())
			}
			cells[i][j] = jsonValue(value)
			return true
		})
	}

	rows := make([][]any, len(records))
	for i := range rows {
		row := make([]any, len(columns))
		for j, v := range cells[i] {
			row[j] = v
		}
		rows[i] = row
	}

	r.logger.Debug("[DataReader] JSON document processed (%d columns, %d rows)", len(columns), len(rows))
	return dataset.NewFrame(columns, rows), nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.Null:
		return nil
	}
	return v.Raw
}

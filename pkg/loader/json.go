package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// rowsFromJSON reads an array of flat objects. Values may be strings or
// numbers; everything is normalized to the string Row shape.
func rowsFromJSON(r io.Reader, path string) ([]Row, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(record))
		for k, v := range record {
			row[normalizeHeader(k)] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

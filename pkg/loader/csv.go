package loader

import (
	"encoding/csv"
	"fmt"
	"io"
)

// rowsFromCSV reads header-mapped rows; the first record is the header.
func rowsFromCSV(r io.Reader, path string) ([]Row, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty (no header row)", path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("%s row %d has %d columns, expected %d", path, i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// rowsFromExcel reads header-mapped rows from the first sheet of an xlsx
// workbook. Short rows are padded; Excel drops trailing empty cells.
func rowsFromExcel(path string) ([]Row, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty (no header row)", path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = record[j]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

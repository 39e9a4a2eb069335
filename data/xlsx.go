package data

import (
	"fmt"
	"io"

	"github.com/meditationhr/models"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet of a workbook laid out like the CSV dataset.
func ReadXLSX(r io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty dataset")
	}

	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, h.record(row))
	}
	return records, nil
}

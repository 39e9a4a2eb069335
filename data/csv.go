package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/meditationhr/models"
)

// ReadCSV reads a comma-separated dataset with a header row. Blank lines are skipped;
// field values are left unparsed for models.Load.
func ReadCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	var records []models.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isBlank(row) {
			continue
		}
		records = append(records, h.record(row))
	}
	return records, nil
}

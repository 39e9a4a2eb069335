package data

import (
	"fmt"
	"strings"

	"github.com/meditationhr/models"
)

// Column names understood in a dataset header, matched case-insensitively.
const (
	colPersonID  = "person_id"
	colTechnique = "technique"
	colGender    = "gender"
	colAge       = "age"
	colTime      = "time"
	colBPM       = "bpm"
)

// header maps a column name to its index in a row.
type header map[string]int

func parseHeader(row []string) (header, error) {
	h := make(header)
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if key == "" {
			continue
		}
		if _, dup := h[key]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		h[key] = i
	}
	for _, required := range []string{colTechnique, colTime, colBPM} {
		if _, ok := h[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return h, nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (h header) record(row []string) models.RawRecord {
	return models.RawRecord{
		PersonID:  h.get(row, colPersonID),
		Technique: h.get(row, colTechnique),
		Gender:    h.get(row, colGender),
		Age:       h.get(row, colAge),
		Time:      h.get(row, colTime),
		BPM:       h.get(row, colBPM),
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

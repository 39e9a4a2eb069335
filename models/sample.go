package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Gender filter values. Samples carry whatever the source said, upper-cased.
const (
	GenderAll    = "All"
	GenderMale   = "M"
	GenderFemale = "F"
)

// Sample is one normalized dataset row: a participant's heart rate at a point in time.
type Sample struct {
	PersonID  string  `json:"person_id"`
	Technique string  `json:"technique"`
	Gender    string  `json:"gender"`
	Age       float64 `json:"age,omitempty"`
	Time      float64 `json:"time"`
	BPM       float64 `json:"bpm"`
}

// RawRecord is a dataset row exactly as read from a source, before parsing.
type RawRecord struct {
	PersonID  string
	Technique string
	Gender    string
	Age       string
	Time      string
	BPM       string
}

// IngestError reports a record that could not be turned into a Sample.
type IngestError struct {
	Row   int // 1-based record index
	Field string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("record %d: field %q: %v", e.Row, e.Field, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

var (
	errMissing   = errors.New("missing value")
	errNotFinite = errors.New("not a finite number")
)

// normalizeGender upper-cases the value; anything unrecognized is kept as is.
func normalizeGender(g string) string {
	return strings.ToUpper(strings.TrimSpace(g))
}

func parseSample(row int, r RawRecord) (Sample, error) {
	technique := strings.TrimSpace(r.Technique)
	if technique == "" {
		return Sample{}, &IngestError{Row: row, Field: "technique", Err: errMissing}
	}

	t, err := parseNumber(row, "time", r.Time)
	if err != nil {
		return Sample{}, err
	}
	bpm, err := parseNumber(row, "bpm", r.BPM)
	if err != nil {
		return Sample{}, err
	}

	var age float64
	if strings.TrimSpace(r.Age) != "" {
		age, err = parseNumber(row, "age", r.Age)
		if err != nil {
			return Sample{}, err
		}
	}

	return Sample{
		PersonID:  strings.TrimSpace(r.PersonID),
		Technique: technique,
		Gender:    normalizeGender(r.Gender),
		Age:       age,
		Time:      t,
		BPM:       bpm,
	}, nil
}

func parseNumber(row int, field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &IngestError{Row: row, Field: field, Err: errMissing}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &IngestError{Row: row, Field: field, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &IngestError{Row: row, Field: field, Err: errNotFinite}
	}
	return v, nil
}

package models

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Heartbeat animation limits, in beats per minute.
const (
	MinBeatBPM = 30
	MaxBeatBPM = 160
)

// Pulse is the state of one technique's figure at a moment on the time scrubber.
type Pulse struct {
	Technique  string        `json:"technique"`
	BPM        float64       `json:"bpm"`
	BeatPeriod time.Duration `json:"beat_period"`
}

// TimeAxis returns every distinct sample time in ascending order.
func TimeAxis(store *SampleStore) []float64 {
	seen := make(map[float64]bool)
	out := make([]float64, 0)
	for _, s := range store.samples {
		if !seen[s.Time] {
			seen[s.Time] = true
			out = append(out, s.Time)
		}
	}
	sort.Float64s(out)
	return out
}

// Frame averages, per technique, the filtered samples recorded exactly at t.
// Techniques without a sample at t are left out. The selection does not apply.
func Frame(store *SampleStore, state FilterState, t float64) []Pulse {
	var order []string
	bpms := make(map[string][]float64)
	for _, s := range store.samples {
		if s.Time != t || !state.Matches(s) {
			continue
		}
		if _, ok := bpms[s.Technique]; !ok {
			order = append(order, s.Technique)
		}
		bpms[s.Technique] = append(bpms[s.Technique], s.BPM)
	}

	out := make([]Pulse, 0, len(order))
	for _, technique := range order {
		mean := stat.Mean(bpms[technique], nil)
		out = append(out, Pulse{
			Technique:  technique,
			BPM:        mean,
			BeatPeriod: BeatPeriod(mean),
		})
	}
	return out
}

// BeatPeriod is the time between two heartbeats at bpm, clamped to a range the
// animation can show.
func BeatPeriod(bpm float64) time.Duration {
	clamped := math.Max(MinBeatBPM, math.Min(MaxBeatBPM, bpm))
	return time.Duration(float64(time.Minute) / clamped)
}

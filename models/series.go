package models

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AveragePrefix marks series synthesized from a technique's time-averages.
const AveragePrefix = "avg-"

// domainPadding is added above and below the bpm range of the visible samples.
const domainPadding = 5.0

type Point struct {
	Time float64 `json:"time"`
	BPM  float64 `json:"bpm"`
}

// Series is one line on the chart. Points are sorted by ascending time.
type Series struct {
	ID        string  `json:"id"`
	Technique string  `json:"technique"`
	Gender    string  `json:"gender,omitempty"` // empty for averaged series
	Averaged  bool    `json:"averaged"`
	Points    []Point `json:"points"`
}

// AverageSeriesID is the key of the averaged line for a technique.
func AverageSeriesID(technique string) string {
	return AveragePrefix + technique
}

// ComputeSeries turns the store and the filter state into the lines to draw.
// Groups come out in first-seen input order, so identical inputs give identical output.
func ComputeSeries(store *SampleStore, state FilterState) []Series {
	filtered := store.Samples(state.Matches)

	var out []Series
	if state.View == TechniqueAverage {
		out = averageSeries(filtered)
	} else {
		out = individualSeries(filtered)
	}

	if state.Selected == "" {
		return out
	}
	selected := make([]Series, 0, 1)
	for _, s := range out {
		if s.ID == state.Selected {
			selected = append(selected, s)
		}
	}
	return selected
}

func individualSeries(samples []Sample) []Series {
	index := make(map[string]int)
	out := make([]Series, 0)

	for _, s := range samples {
		i, ok := index[s.PersonID]
		if !ok {
			i = len(out)
			index[s.PersonID] = i
			out = append(out, Series{
				ID:        s.PersonID,
				Technique: s.Technique,
				Gender:    s.Gender,
			})
		}
		out[i].Points = append(out[i].Points, Point{Time: s.Time, BPM: s.BPM})
	}

	for i := range out {
		sortPoints(out[i].Points)
	}
	return out
}

// averageSeries merges samples of one technique that share an exact timestamp,
// regardless of who recorded them, into a single unweighted mean.
func averageSeries(samples []Sample) []Series {
	type bucket struct {
		times []float64
		bpms  map[float64][]float64
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, s := range samples {
		b, ok := buckets[s.Technique]
		if !ok {
			b = &bucket{bpms: make(map[float64][]float64)}
			buckets[s.Technique] = b
			order = append(order, s.Technique)
		}
		if _, ok := b.bpms[s.Time]; !ok {
			b.times = append(b.times, s.Time)
		}
		b.bpms[s.Time] = append(b.bpms[s.Time], s.BPM)
	}

	out := make([]Series, 0, len(order))
	for _, technique := range order {
		b := buckets[technique]
		points := make([]Point, 0, len(b.times))
		for _, t := range b.times {
			points = append(points, Point{Time: t, BPM: stat.Mean(b.bpms[t], nil)})
		}
		sortPoints(points)
		out = append(out, Series{
			ID:        AverageSeriesID(technique),
			Technique: technique,
			Averaged:  true,
			Points:    points,
		})
	}
	return out
}

func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time < points[j].Time
	})
}

// Domain is the pair of axis ranges for the chart.
type Domain struct {
	TimeMin float64 `json:"time_min"`
	TimeMax float64 `json:"time_max"`
	BPMMin  float64 `json:"bpm_min"`
	BPMMax  float64 `json:"bpm_max"`
	Empty   bool    `json:"empty"`
}

// ComputeDomain derives the axis ranges from the filtered samples. The selection is
// ignored so isolating a line does not rescale the chart. The bpm range is padded by 5
// on both sides and never goes below zero.
func ComputeDomain(store *SampleStore, state FilterState) Domain {
	filtered := store.Samples(state.Matches)
	if len(filtered) == 0 {
		return Domain{Empty: true}
	}

	times := make([]float64, len(filtered))
	bpms := make([]float64, len(filtered))
	for i, s := range filtered {
		times[i] = s.Time
		bpms[i] = s.BPM
	}

	return Domain{
		TimeMin: floats.Min(times),
		TimeMax: floats.Max(times),
		BPMMin:  math.Max(0, floats.Min(bpms)-domainPadding),
		BPMMax:  floats.Max(bpms) + domainPadding,
	}
}

package models

import (
	"strings"

	"github.com/montanaflynn/stats"
)

type InsightKind string

const (
	NoData    InsightKind = "no_data"
	Aggregate InsightKind = "aggregate"
	Single    InsightKind = "single"
)

// TechniqueMean is the mean bpm of every filtered sample of one technique.
type TechniqueMean struct {
	Technique string  `json:"technique"`
	MeanBPM   float64 `json:"mean_bpm"`
}

type AggregateInsights struct {
	Participants int             `json:"participants"`
	MinBPM       float64         `json:"min_bpm"`
	MaxBPM       float64         `json:"max_bpm"`
	Techniques   []TechniqueMean `json:"techniques"`
	Highest      TechniqueMean   `json:"highest"`
	Lowest       TechniqueMean   `json:"lowest"`
}

type SeriesInsights struct {
	SeriesID  string  `json:"series_id"`
	Technique string  `json:"technique"`
	MeanBPM   float64 `json:"mean_bpm"`
	MinBPM    float64 `json:"min_bpm"`
	MaxBPM    float64 `json:"max_bpm"`
	Duration  float64 `json:"duration"`
}

// Insights is the text panel next to the chart. Exactly one of Aggregate and Single is
// set, matching Kind; both are nil for NoData.
type Insights struct {
	Kind      InsightKind        `json:"kind"`
	Aggregate *AggregateInsights `json:"aggregate,omitempty"`
	Single    *SeriesInsights    `json:"single,omitempty"`
}

// Summarize computes the insights for the current filter state. It never fails:
// when nothing matches it reports NoData and the caller shows a placeholder.
func Summarize(store *SampleStore, state FilterState) Insights {
	if state.Selected != "" {
		return summarizeSelection(store, state)
	}

	filtered := store.Samples(state.Matches)
	if len(filtered) == 0 {
		return Insights{Kind: NoData}
	}

	people := make(map[string]bool)
	bpms := make([]float64, 0, len(filtered))
	var order []string
	byTechnique := make(map[string][]float64)
	for _, s := range filtered {
		people[s.PersonID] = true
		bpms = append(bpms, s.BPM)
		if _, ok := byTechnique[s.Technique]; !ok {
			order = append(order, s.Technique)
		}
		byTechnique[s.Technique] = append(byTechnique[s.Technique], s.BPM)
	}

	agg := &AggregateInsights{Participants: len(people)}
	agg.MinBPM, _ = stats.Min(bpms)
	agg.MaxBPM, _ = stats.Max(bpms)

	// Strict comparisons keep the first technique seen when means tie.
	for i, technique := range order {
		mean, _ := stats.Mean(byTechnique[technique])
		tm := TechniqueMean{Technique: technique, MeanBPM: mean}
		agg.Techniques = append(agg.Techniques, tm)
		if i == 0 || tm.MeanBPM > agg.Highest.MeanBPM {
			agg.Highest = tm
		}
		if i == 0 || tm.MeanBPM < agg.Lowest.MeanBPM {
			agg.Lowest = tm
		}
	}

	return Insights{Kind: Aggregate, Aggregate: agg}
}

// summarizeSelection describes the samples behind the selected line. A participant's
// line covers their whole recording, whatever the filters say; an averaged line covers
// the filtered samples of its technique.
func summarizeSelection(store *SampleStore, state FilterState) Insights {
	var samples []Sample
	if technique, ok := strings.CutPrefix(state.Selected, AveragePrefix); ok && store.hasTechnique(technique) {
		samples = store.Samples(func(s Sample) bool {
			return s.Technique == technique && state.Matches(s)
		})
	} else {
		samples = store.PersonSamples(state.Selected)
	}
	if len(samples) == 0 {
		return Insights{Kind: NoData}
	}

	bpms := make([]float64, len(samples))
	times := make([]float64, len(samples))
	for i, s := range samples {
		bpms[i] = s.BPM
		times[i] = s.Time
	}

	single := &SeriesInsights{
		SeriesID:  state.Selected,
		Technique: samples[0].Technique,
	}
	single.MeanBPM, _ = stats.Mean(bpms)
	single.MinBPM, _ = stats.Min(bpms)
	single.MaxBPM, _ = stats.Max(bpms)
	first, _ := stats.Min(times)
	last, _ := stats.Max(times)
	single.Duration = last - first

	return Insights{Kind: Single, Single: single}
}

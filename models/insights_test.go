package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeAggregate(t *testing.T) {
	store := fixtureStore(t)
	insights := Summarize(store, NewFilterState(store))

	require.Equal(t, Aggregate, insights.Kind)
	require.NotNil(t, insights.Aggregate)
	assert.Nil(t, insights.Single)

	agg := insights.Aggregate
	assert.Equal(t, 4, agg.Participants)
	assert.Equal(t, 50.0, agg.MinBPM)
	assert.Equal(t, 80.0, agg.MaxBPM)
	assert.Equal(t, []TechniqueMean{
		{"Chi", 70},
		{"Normal", 71},
		{"Athlete", 52},
	}, agg.Techniques)
	assert.Equal(t, TechniqueMean{"Normal", 71}, agg.Highest)
	assert.Equal(t, TechniqueMean{"Athlete", 52}, agg.Lowest)
}

func TestSummarizeTieKeepsFirstSeen(t *testing.T) {
	store, err := Load([]RawRecord{
		raw("P1", "Metronomic", "M", 0, 65),
		raw("P2", "Chi", "F", 0, 65),
		raw("P3", "Normal", "F", 0, 65),
	})
	require.NoError(t, err)

	agg := Summarize(store, FilterState{}).Aggregate
	require.NotNil(t, agg)
	assert.Equal(t, "Metronomic", agg.Highest.Technique)
	assert.Equal(t, "Metronomic", agg.Lowest.Technique)
}

func TestSummarizeNoData(t *testing.T) {
	store := fixtureStore(t)

	insights := Summarize(store, FilterState{Techniques: []string{"Kundalini"}})
	assert.Equal(t, Insights{Kind: NoData}, insights)

	insights = Summarize(store, FilterState{Selected: "nobody"})
	assert.Equal(t, NoData, insights.Kind)
}

func TestSummarizeSinglePerson(t *testing.T) {
	store, err := Load([]RawRecord{
		raw("P1", "Chi", "M", 0, 90),
		raw("P1", "Chi", "M", 5, 60),
		raw("P1", "Chi", "M", 10, 75),
		raw("P2", "Chi", "M", 40, 75),
	})
	require.NoError(t, err)

	insights := Summarize(store, FilterState{Selected: "P1"})
	require.Equal(t, Single, insights.Kind)
	require.NotNil(t, insights.Single)

	s := insights.Single
	assert.Equal(t, "P1", s.SeriesID)
	assert.Equal(t, "Chi", s.Technique)
	assert.Equal(t, 10.0, s.Duration)
	assert.Equal(t, 75.0, s.MeanBPM)
	assert.Equal(t, 60.0, s.MinBPM)
	assert.Equal(t, 90.0, s.MaxBPM)
}

func TestSummarizeSinglePersonIgnoresFilters(t *testing.T) {
	store := fixtureStore(t)
	state := FilterState{Gender: GenderMale, Selected: "P3"} // P3 is female

	insights := Summarize(store, state)
	require.Equal(t, Single, insights.Kind)
	assert.Equal(t, 5.0, insights.Single.Duration)
}

func TestSummarizeSingleAverage(t *testing.T) {
	store := fixtureStore(t)
	state := FilterState{Gender: GenderMale, View: TechniqueAverage, Selected: AverageSeriesID("Chi")}

	insights := Summarize(store, state)
	require.Equal(t, Single, insights.Kind)
	s := insights.Single
	assert.Equal(t, "avg-Chi", s.SeriesID)
	assert.Equal(t, "Chi", s.Technique)
	assert.Equal(t, 61.0, s.MeanBPM) // only P1 is male
	assert.Equal(t, 10.0, s.Duration)
}

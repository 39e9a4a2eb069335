package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearest(t *testing.T) {
	series := Series{ID: "P1", Points: []Point{{0, 60}, {10, 70}, {20, 80}}}

	tests := []struct {
		name  string
		query float64
		want  Point
	}{
		{"closer to later point", 7, Point{10, 70}},
		{"closer to earlier point", 4, Point{0, 60}},
		{"exact hit", 10, Point{10, 70}},
		{"before first", -3, Point{0, 60}},
		{"after last", 99, Point{20, 80}},
		{"halfway picks later", 15, Point{20, 80}},
		{"exact first", 0, Point{0, 60}},
		{"exact last", 20, Point{20, 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(series, tt.query)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestEmptySeries(t *testing.T) {
	_, ok := Nearest(Series{ID: "empty"}, 5)
	assert.False(t, ok)
}

func TestNearestSinglePoint(t *testing.T) {
	got, ok := Nearest(Series{Points: []Point{{3, 61}}}, 1000)
	assert.True(t, ok)
	assert.Equal(t, Point{3, 61}, got)
}

func TestFindSeries(t *testing.T) {
	all := []Series{{ID: "P1"}, {ID: "avg-Chi"}}
	s, ok := FindSeries(all, "avg-Chi")
	assert.True(t, ok)
	assert.Equal(t, "avg-Chi", s.ID)

	_, ok = FindSeries(all, "P9")
	assert.False(t, ok)
}

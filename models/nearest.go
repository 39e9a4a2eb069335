package models

import (
	"math"
	"sort"
)

// Nearest returns the point of series closest in time to t. It is called on every
// pointer move, so it binary-searches the (sorted) points instead of scanning them.
// When t sits exactly halfway between two points the later one wins.
func Nearest(series Series, t float64) (Point, bool) {
	points := series.Points
	if len(points) == 0 {
		return Point{}, false
	}

	i := sort.Search(len(points), func(i int) bool {
		return points[i].Time >= t
	})
	if i == 0 {
		return points[0], true
	}
	if i == len(points) {
		return points[len(points)-1], true
	}

	before, after := points[i-1], points[i]
	if math.Abs(t-before.Time) < math.Abs(t-after.Time) {
		return before, true
	}
	return after, true
}

// FindSeries looks a series up by key.
func FindSeries(series []Series, id string) (Series, bool) {
	for _, s := range series {
		if s.ID == id {
			return s, true
		}
	}
	return Series{}, false
}

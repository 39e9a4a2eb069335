package models

import "math"

// Zoom limits for the time axis.
const (
	MinZoomScale = 0.5
	MaxZoomScale = 8.0
	MinZoomSpan  = 5.0 // seconds
)

// Viewport is the visible time window of the chart.
type Viewport struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (v Viewport) Span() float64 {
	return v.Max - v.Min
}

// FullViewport is the unzoomed window for a domain.
func FullViewport(d Domain) Viewport {
	return Viewport{Min: d.TimeMin, Max: d.TimeMax}
}

// Zoom returns a window of width bounds.Span()/scale centred on v, clamped to bounds.
// The scale is limited to [MinZoomScale, MaxZoomScale]. A result narrower than
// MinZoomSpan is refused and v is returned unchanged with false.
func (v Viewport) Zoom(scale float64, bounds Viewport) (Viewport, bool) {
	if scale <= 0 || math.IsNaN(scale) {
		return v, false
	}
	scale = math.Max(MinZoomScale, math.Min(MaxZoomScale, scale))

	half := bounds.Span() / scale / 2
	centre := (v.Min + v.Max) / 2
	next := Viewport{
		Min: math.Max(bounds.Min, centre-half),
		Max: math.Min(bounds.Max, centre+half),
	}
	if next.Span() < MinZoomSpan {
		return v, false
	}
	return next, true
}

// Pan shifts the window by delta seconds without leaving bounds or changing its width.
func (v Viewport) Pan(delta float64, bounds Viewport) Viewport {
	span := v.Span()
	next := Viewport{Min: v.Min + delta, Max: v.Max + delta}
	if next.Min < bounds.Min {
		next = Viewport{Min: bounds.Min, Max: bounds.Min + span}
	}
	if next.Max > bounds.Max {
		next = Viewport{Min: bounds.Max - span, Max: bounds.Max}
	}
	return next
}

// Percent maps the window onto start/end percentages of bounds, the form the chart's
// data-zoom component expects.
func (v Viewport) Percent(bounds Viewport) (start, end float64) {
	span := bounds.Span()
	if span <= 0 {
		return 0, 100
	}
	start = (v.Min - bounds.Min) / span * 100
	end = (v.Max - bounds.Min) / span * 100
	return math.Max(0, start), math.Min(100, end)
}

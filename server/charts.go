package server

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/meditationhr/config"
	"github.com/meditationhr/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	individualLineWidth = 1.8
	averageLineWidth    = 3
)

var titleCaser = cases.Title(language.English)

// chartInput is everything one render of the heart-rate chart needs.
type chartInput struct {
	Series   []models.Series
	Domain   models.Domain
	State    models.FilterState
	Viewport models.Viewport
	Palette  config.Palette
}

// generateLineChart draws one line per series on numeric time and bpm axes.
func generateLineChart(in chartInput) *charts.Line {
	line := charts.NewLine()

	subtitle := titleCaser.String(in.State.View.String() + " view")
	if in.State.Selected != "" {
		subtitle += " - " + in.State.Selected
	}
	if len(in.Series) == 0 {
		subtitle = "No data for these filters"
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Heart Rate During Meditation",
			Theme:     "macarons",
			Width:     "100%",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Heart Rate During Meditation",
			Subtitle: subtitle,
		}),
		// One read-out per visible line at the hovered time, like the dashboard's
		// nearest-point tooltip.
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "line",
			},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(len(in.Series) <= 20),
			Bottom: "bottom",
		}),
		charts.WithGridOpts(opts.Grid{
			Bottom: "20%",
		}),
	)

	if !in.Domain.Empty {
		bounds := models.FullViewport(in.Domain)
		start, end := in.Viewport.Percent(bounds)
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{
				Name:         "Time (seconds)",
				NameLocation: "middle",
				NameGap:      30,
				Type:         "value",
				Min:          in.Domain.TimeMin,
				Max:          in.Domain.TimeMax,
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Name:         "Heart Rate (BPM)",
				NameLocation: "middle",
				NameGap:      50,
				Type:         "value",
				Min:          math.Floor(in.Domain.BPMMin),
				Max:          math.Ceil(in.Domain.BPMMax),
			}),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:       "inside",
				Start:      float32(start),
				End:        float32(end),
				XAxisIndex: []int{0},
			}),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:       "slider",
				Start:      float32(start),
				End:        float32(end),
				XAxisIndex: []int{0},
			}),
		)
	}

	width := float32(individualLineWidth)
	if in.State.View == models.TechniqueAverage {
		width = averageLineWidth
	}

	for _, s := range in.Series {
		colour := in.Palette.Colour(s.Technique)
		line.AddSeries(seriesLabel(s), generateLineItems(s.Points),
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: colour,
				Width: width,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: colour,
			}),
		)
	}

	return line
}

func seriesLabel(s models.Series) string {
	if s.Averaged {
		return fmt.Sprintf("%s (average)", s.Technique)
	}
	return fmt.Sprintf("%s (%s, %s)", s.ID, s.Technique, s.Gender)
}

// generateLineItems converts points to [time, bpm] pairs for a value x axis.
func generateLineItems(points []models.Point) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: []interface{}{p.Time, p.BPM}})
	}
	return items
}

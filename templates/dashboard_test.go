package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/meditationhr/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSingleSeries(t *testing.T) {
	view := DashboardView{
		Techniques: []TechniqueOption{{Name: "Chi", Checked: true, Colour: "#3b82f6"}, {Name: "Athlete", Colour: "#f59e0b"}},
		Gender:     "F",
		View:       "individual",
		Selected:   "P2",
		Series:     []SeriesLink{{ID: "P2", Label: "P2 (Chi, F)", Colour: "#3b82f6", Selected: true}},
		Insights: models.Insights{
			Kind:   models.Single,
			Single: &models.SeriesInsights{SeriesID: "P2", Technique: "Chi", MeanBPM: 79, MinBPM: 78, MaxBPM: 80, Duration: 10},
		},
		Timeline:  []float64{0, 10},
		FrameTime: 10,
		Frame:     []models.Pulse{{Technique: "Chi", BPM: 78, BeatPeriod: 769 * time.Millisecond}},
	}

	var buf bytes.Buffer
	require.NoError(t, Dashboard(view).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `value="Chi" checked`)
	assert.NotContains(t, html, `value="Athlete" checked`)
	assert.Contains(t, html, `<option value="F" selected>`)
	assert.Contains(t, html, "Show all lines")
	assert.Contains(t, html, "Avg BPM: 79.0")
	assert.Contains(t, html, "Duration: 10.0 seconds")
	assert.Contains(t, html, "one beat every 0.77s")
}

func TestDashboardNoData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dashboard(DashboardView{Insights: models.Insights{Kind: models.NoData}}).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "No data available for the selected filters.")
	assert.Contains(t, buf.String(), "No samples at this time.")
	assert.NotContains(t, buf.String(), "Show all lines")
}

func TestErrorEscapesMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Error(`bad <input>`).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "bad &lt;input&gt;")
}

func TestDashboardSwatches(t *testing.T) {
	view := DashboardView{
		Techniques: []TechniqueOption{{Name: "Chi", Colour: "#3b82f6"}, {Name: "Yoga", Colour: "red;background-image:url(x)"}},
		Series: []SeriesLink{
			{ID: "P1", Label: "P1 (Chi, M)", Colour: "#3b82f6", Selected: true},
			{ID: "P2", Label: "P2 (Chi, F)", Colour: "#3b82f6"},
		},
		Insights: models.Insights{Kind: models.NoData},
	}

	var buf bytes.Buffer
	require.NoError(t, Dashboard(view).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `style="background-color:#3b82f6;"`)
	assert.Contains(t, html, "zTemplUnsafeCSSPropertyValue")
	assert.NotContains(t, html, "url(x)")
	assert.Equal(t, 1, strings.Count(html, "<li data-selected>"))
}

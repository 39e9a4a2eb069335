package templates

import (
	"fmt"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/meditationhr/models"
)

// TechniqueOption is one checkbox in the filter panel.
type TechniqueOption struct {
	Name    string
	Checked bool
	Colour  string
}

// SeriesLink lets the user isolate one line.
type SeriesLink struct {
	ID       string
	Label    string
	Colour   string
	Selected bool
}

// DashboardView is the data behind the dashboard page.
type DashboardView struct {
	Techniques []TechniqueOption
	Gender     string
	View       string
	Selected   string
	Series     []SeriesLink
	Insights   models.Insights
	Timeline   []float64
	FrameTime  float64
	Frame      []models.Pulse
	ChartQuery string
	Origin     string
}

type choice struct {
	Value string
	Label string
}

var genderChoices = []choice{
	{Value: models.GenderAll, Label: "All"},
	{Value: models.GenderMale, Label: "Male"},
	{Value: models.GenderFemale, Label: "Female"},
}

var viewChoices = []choice{
	{Value: models.Individual.String(), Label: "Individual"},
	{Value: models.TechniqueAverage.String(), Label: "Technique average"},
}

func bpmText(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func secondsText(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// secondsAttr keeps full precision so the scrubber lands on recorded times exactly.
func secondsAttr(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func beatText(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// swatchStyle sanitizes palette colours, which can come from a user supplied file.
func swatchStyle(colour string) templ.SafeCSS {
	return templ.SanitizeCSS("background-color", colour)
}

func chartSrc(query string) string {
	return "/chart" + query
}

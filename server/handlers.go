package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/meditationhr/models"
	"github.com/meditationhr/templates"
)

// Query parameters of the chart window that the dashboard forwards to /chart.
var viewportParams = []string{"from", "to", "zoom", "pan"}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)

	frameTime, err := s.frameTime(r.URL.Query().Get("t"))
	if err != nil {
		templ.Handler(templates.Error(err.Error()), templ.WithStatus(http.StatusBadRequest)).ServeHTTP(w, r)
		return
	}

	view := templates.DashboardView{
		Gender:     state.Gender,
		View:       state.View.String(),
		Selected:   state.Selected,
		Insights:   models.Summarize(s.store, state),
		Timeline:   models.TimeAxis(s.store),
		FrameTime:  frameTime,
		Frame:      models.Frame(s.store, state, frameTime),
		ChartQuery: chartQuery(r.URL.Query()),
		Origin:     string(s.origin),
	}

	for _, tech := range s.store.AllTechniques() {
		view.Techniques = append(view.Techniques, templates.TechniqueOption{
			Name:    tech,
			Checked: len(state.Techniques) == 0 || slices.Contains(state.Techniques, tech),
			Colour:  s.palette.Colour(tech),
		})
	}

	// The list offers every line the filters allow, not only the selected one.
	unselected := models.Reduce(state, models.ClearSelection{})
	for _, series := range models.ComputeSeries(s.store, unselected) {
		view.Series = append(view.Series, templates.SeriesLink{
			ID:       series.ID,
			Label:    seriesLabel(series),
			Colour:   s.palette.Colour(series.Technique),
			Selected: series.ID == state.Selected,
		})
	}

	templ.Handler(templates.Dashboard(view)).ServeHTTP(w, r)
}

func (s *Server) filterHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	gender, err := models.ParseGender(r.FormValue("gender"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := models.ParseView(r.FormValue("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Gender and view changes drop the selection, so only send them when they change.
	actions := []models.Action{models.SetTechniques{Techniques: r.Form["technique"]}}
	if gender != state.Gender {
		actions = append(actions, models.SetGender{Gender: gender})
	}
	if view != state.View {
		actions = append(actions, models.SetView{View: view})
	}
	state = s.sessions.update(w, r, actions...)
	log.Printf("Filters updated: techniques=%v gender=%s view=%s", state.Techniques, state.Gender, state.View)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	seriesID := r.FormValue("id")
	if seriesID == "" {
		http.Error(w, "Missing series id", http.StatusBadRequest)
		return
	}
	s.sessions.update(w, r, models.SelectSeries{ID: seriesID})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	s.sessions.update(w, r, models.ClearSelection{})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)

	domain := models.ComputeDomain(s.store, state)
	bounds := models.FullViewport(domain)
	viewport, err := parseViewport(r.URL.Query(), bounds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	line := generateLineChart(chartInput{
		Series:   models.ComputeSeries(s.store, state),
		Domain:   domain,
		State:    state,
		Viewport: viewport,
		Palette:  s.palette,
	})

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		log.Printf("Failed to render chart: %v", err)
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) actionsHandler(w http.ResponseWriter, r *http.Request) {
	action, err := decodeAction(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessions.update(w, r, action))
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)
	writeJSON(w, http.StatusOK, models.ComputeSeries(s.store, state))
}

func (s *Server) domainHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)
	writeJSON(w, http.StatusOK, models.ComputeDomain(s.store, state))
}

func (s *Server) insightsHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)
	writeJSON(w, http.StatusOK, models.Summarize(s.store, state))
}

type nearestResponse struct {
	SeriesID string       `json:"series_id"`
	Point    models.Point `json:"point"`
}

func (s *Server) nearestHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)

	q := r.URL.Query()
	t, err := parseFinite(q.Get("t"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "t must be a number of seconds")
		return
	}

	seriesID := q.Get("series")
	series, ok := models.FindSeries(models.ComputeSeries(s.store, state), seriesID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("series %q is not visible", seriesID))
		return
	}
	point, ok := models.Nearest(series, t)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("series %q has no points", seriesID))
		return
	}
	writeJSON(w, http.StatusOK, nearestResponse{SeriesID: seriesID, Point: point})
}

func (s *Server) timelineHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]float64{"times": models.TimeAxis(s.store)})
}

type frameResponse struct {
	Time   float64        `json:"time"`
	Pulses []models.Pulse `json:"pulses"`
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.state(r)

	t, err := parseFinite(r.URL.Query().Get("t"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "t must be a number of seconds")
		return
	}
	writeJSON(w, http.StatusOK, frameResponse{Time: t, Pulses: models.Frame(s.store, state, t)})
}

// frameTime snaps the scrubber position to the closest recorded time. An empty value
// means the start of the timeline.
func (s *Server) frameTime(raw string) (float64, error) {
	ticks := models.TimeAxis(s.store)
	if len(ticks) == 0 {
		return 0, nil
	}
	if raw == "" {
		return ticks[0], nil
	}
	t, err := parseFinite(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", raw)
	}

	axis := models.Series{Points: make([]models.Point, len(ticks))}
	for i, tick := range ticks {
		axis.Points[i] = models.Point{Time: tick}
	}
	p, _ := models.Nearest(axis, t)
	return p.Time, nil
}

// parseViewport builds the chart window from the query. from/to set it directly, zoom
// rescales it around its centre and pan shifts it. Anything missing keeps the full range.
func parseViewport(q url.Values, bounds models.Viewport) (models.Viewport, error) {
	vp := bounds

	if q.Has("from") || q.Has("to") {
		var err error
		if q.Has("from") {
			if vp.Min, err = parseFinite(q.Get("from")); err != nil {
				return bounds, fmt.Errorf("invalid from %q", q.Get("from"))
			}
		}
		if q.Has("to") {
			if vp.Max, err = parseFinite(q.Get("to")); err != nil {
				return bounds, fmt.Errorf("invalid to %q", q.Get("to"))
			}
		}
		vp.Min = max(vp.Min, bounds.Min)
		vp.Max = min(vp.Max, bounds.Max)
		if vp.Span() < models.MinZoomSpan && bounds.Span() >= models.MinZoomSpan {
			return bounds, fmt.Errorf("window must be at least %g seconds wide", models.MinZoomSpan)
		}
	}

	if raw := q.Get("zoom"); raw != "" {
		scale, err := parseFinite(raw)
		if err != nil {
			return bounds, fmt.Errorf("invalid zoom %q", raw)
		}
		if next, ok := vp.Zoom(scale, bounds); ok {
			vp = next
		}
	}

	if raw := q.Get("pan"); raw != "" {
		delta, err := parseFinite(raw)
		if err != nil {
			return bounds, fmt.Errorf("invalid pan %q", raw)
		}
		vp = vp.Pan(delta, bounds)
	}
	return vp, nil
}

// parseFinite parses a query number, rejecting NaN and the infinities.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

func chartQuery(q url.Values) string {
	out := url.Values{}
	for _, key := range viewportParams {
		if q.Has(key) {
			out.Set(key, q.Get(key))
		}
	}
	if len(out) == 0 {
		return ""
	}
	return "?" + out.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

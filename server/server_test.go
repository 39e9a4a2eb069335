package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/meditationhr/config"
	"github.com/meditationhr/data"
	"github.com/meditationhr/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(person, technique, gender string, t, bpm float64) models.RawRecord {
	return models.RawRecord{
		PersonID:  person,
		Technique: technique,
		Gender:    gender,
		Age:       "30",
		Time:      strconv.FormatFloat(t, 'f', -1, 64),
		BPM:       strconv.FormatFloat(bpm, 'f', -1, 64),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := models.Load([]models.RawRecord{
		raw("P1", "Chi", "M", 0, 60),
		raw("P1", "Chi", "M", 10, 62),
		raw("P2", "Chi", "F", 0, 80),
		raw("P2", "Chi", "F", 10, 78),
		raw("P3", "Normal", "F", 0, 70),
		raw("P3", "Normal", "F", 5, 72),
		raw("P4", "Athlete", "M", 0, 50),
		raw("P4", "Athlete", "M", 10, 54),
	})
	require.NoError(t, err)
	return New(store, config.DefaultPalette(), data.OriginFile)
}

// client carries the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Handler()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func seriesIDs(series []models.Series) []string {
	ids := make([]string, 0, len(series))
	for _, s := range series {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestInitialState(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.cookie, "reading state does not start a session")

	state := decode[models.FilterState](t, rec)
	assert.Equal(t, []string{"Chi", "Normal", "Athlete"}, state.Techniques)
	assert.Equal(t, models.GenderAll, state.Gender)
	assert.Equal(t, models.Individual, state.View)
	assert.Empty(t, state.Selected)
}

func TestActionsUpdateSessionState(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.postJSON("/api/actions", `{"type":"set_view","view":"average"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TechniqueAverage, decode[models.FilterState](t, rec).View)

	rec = c.get("/api/series")
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode[[]models.Series](t, rec)
	assert.Equal(t, []string{"avg-Chi", "avg-Normal", "avg-Athlete"}, seriesIDs(series))
	assert.Equal(t, []models.Point{{Time: 0, BPM: 70}, {Time: 10, BPM: 70}}, series[0].Points)
}

func TestActionsRejectBadInput(t *testing.T) {
	c := newClient(t, newTestServer(t))

	for _, body := range []string{
		`{"type":"teleport"}`,
		`{"type":"set_gender","gender":"X"}`,
		`{"type":"select"}`,
		`not json`,
	} {
		rec := c.postJSON("/api/actions", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"error"`, body)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	a, b := newClient(t, s), newClient(t, s)

	a.postJSON("/api/actions", `{"type":"set_gender","gender":"f"}`)
	b.get("/api/state")

	assert.Equal(t, "F", decode[models.FilterState](t, a.get("/api/state")).Gender)
	assert.Equal(t, models.GenderAll, decode[models.FilterState](t, b.get("/api/state")).Gender)
	assert.Equal(t, 1, s.sessions.len())
}

func TestReadsDoNotCreateSessions(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, path := range []string{"/", "/chart", "/api/state", "/api/series", "/api/domain",
		"/api/insights", "/api/timeline", "/api/frame?t=0", "/api/nearest?series=P1&t=0"} {
		for i := 0; i < 100; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Empty(t, rec.Result().Cookies(), path)
		}
	}
	assert.Equal(t, 0, s.sessions.len())
}

func TestNonFiniteTimesAreRejected(t *testing.T) {
	c := newClient(t, newTestServer(t))

	for _, path := range []string{
		"/api/nearest?series=P1&t=NaN",
		"/api/nearest?series=P1&t=Inf",
		"/api/frame?t=NaN",
		"/api/frame?t=-Inf",
		"/chart?from=NaN",
		"/chart?to=NaN",
		"/chart?zoom=NaN",
		"/chart?pan=Inf",
		"/?t=NaN",
	} {
		assert.Equal(t, http.StatusBadRequest, c.get(path).Code, path)
	}
}

func TestFilterForm(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.postForm("/filter", url.Values{
		"technique": {"Chi", "Normal"},
		"gender":    {"F"},
		"view":      {"individual"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	state := decode[models.FilterState](t, c.get("/api/state"))
	assert.Equal(t, []string{"Chi", "Normal"}, state.Techniques)
	assert.Equal(t, "F", state.Gender)

	series := decode[[]models.Series](t, c.get("/api/series"))
	assert.Equal(t, []string{"P2", "P3"}, seriesIDs(series))
}

func TestFilterFormRejectsUnknownView(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.postForm("/filter", url.Values{"view": {"sideways"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionKeptAcrossTechniqueOnlyFilter(t *testing.T) {
	c := newClient(t, newTestServer(t))

	require.Equal(t, http.StatusSeeOther, c.postForm("/select", url.Values{"id": {"P1"}}).Code)
	c.postForm("/filter", url.Values{"technique": {"Chi"}, "gender": {"All"}, "view": {"individual"}})
	assert.Equal(t, "P1", decode[models.FilterState](t, c.get("/api/state")).Selected)

	insights := decode[models.Insights](t, c.get("/api/insights"))
	require.Equal(t, models.Single, insights.Kind)
	assert.Equal(t, "P1", insights.Single.SeriesID)
	assert.InDelta(t, 61, insights.Single.MeanBPM, 1e-9)

	c.postForm("/filter", url.Values{"technique": {"Chi"}, "gender": {"M"}, "view": {"individual"}})
	assert.Empty(t, decode[models.FilterState](t, c.get("/api/state")).Selected)
}

func TestClearSelection(t *testing.T) {
	c := newClient(t, newTestServer(t))

	c.postForm("/select", url.Values{"id": {"P3"}})
	assert.Equal(t, []string{"P3"}, seriesIDs(decode[[]models.Series](t, c.get("/api/series"))))

	require.Equal(t, http.StatusSeeOther, c.postForm("/clear", nil).Code)
	assert.Len(t, decode[[]models.Series](t, c.get("/api/series")), 4)

	assert.Equal(t, http.StatusBadRequest, c.postForm("/select", url.Values{}).Code)
}

func TestDomainAndInsights(t *testing.T) {
	c := newClient(t, newTestServer(t))

	domain := decode[models.Domain](t, c.get("/api/domain"))
	assert.False(t, domain.Empty)
	assert.Equal(t, 0.0, domain.TimeMin)
	assert.Equal(t, 10.0, domain.TimeMax)
	assert.Equal(t, 45.0, domain.BPMMin)
	assert.Equal(t, 85.0, domain.BPMMax)

	insights := decode[models.Insights](t, c.get("/api/insights"))
	require.Equal(t, models.Aggregate, insights.Kind)
	assert.Equal(t, 4, insights.Aggregate.Participants)
	assert.Equal(t, "Normal", insights.Aggregate.Highest.Technique)
	assert.Equal(t, "Athlete", insights.Aggregate.Lowest.Technique)
}

func TestNearestEndpoint(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/api/nearest?series=P1&t=6")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[nearestResponse](t, rec)
	assert.Equal(t, "P1", got.SeriesID)
	assert.Equal(t, models.Point{Time: 10, BPM: 62}, got.Point)

	rec = c.get("/api/nearest?series=P1&t=5")
	assert.Equal(t, models.Point{Time: 10, BPM: 62}, decode[nearestResponse](t, rec).Point, "ties go to the later point")

	assert.Equal(t, http.StatusNotFound, c.get("/api/nearest?series=P9&t=1").Code)
	assert.Equal(t, http.StatusBadRequest, c.get("/api/nearest?series=P1&t=soon").Code)
}

func TestTimelineAndFrame(t *testing.T) {
	c := newClient(t, newTestServer(t))

	timeline := decode[map[string][]float64](t, c.get("/api/timeline"))
	assert.Equal(t, []float64{0, 5, 10}, timeline["times"])

	rec := c.get("/api/frame?t=0")
	require.Equal(t, http.StatusOK, rec.Code)
	frame := decode[frameResponse](t, rec)
	require.Len(t, frame.Pulses, 3)
	assert.Equal(t, "Chi", frame.Pulses[0].Technique)
	assert.InDelta(t, 70, frame.Pulses[0].BPM, 1e-9)
	assert.Equal(t, models.BeatPeriod(50), frame.Pulses[2].BeatPeriod)

	frame = decode[frameResponse](t, c.get("/api/frame?t=3"))
	assert.Empty(t, frame.Pulses)

	assert.Equal(t, http.StatusBadRequest, c.get("/api/frame").Code)
}

func TestChartRenders(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/chart")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Heart Rate During Meditation")
	assert.Contains(t, body, "P1 (Chi, M)")
	assert.Contains(t, body, `"trigger":"axis"`)

	assert.Equal(t, http.StatusOK, c.get("/chart?from=0&to=6").Code)
	assert.Equal(t, http.StatusBadRequest, c.get("/chart?from=soon").Code)
	assert.Equal(t, http.StatusBadRequest, c.get("/chart?from=3&to=5").Code)
}

func TestIndexRenders(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.get("/?t=4&zoom=2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Number of participants: 4")
	assert.Contains(t, body, "Heartbeat at 5.0s")
	assert.Contains(t, body, `/chart?zoom=2`)
	assert.Contains(t, body, "Dataset: file")

	assert.Equal(t, http.StatusBadRequest, c.get("/?t=later").Code)
}

func TestIndexShowsNoData(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.postJSON("/api/actions", `{"type":"set_techniques","techniques":["Breathwork"]}`)

	body := c.get("/").Body.String()
	assert.Contains(t, body, "No data available for the selected filters.")
}

func TestParseViewport(t *testing.T) {
	bounds := models.Viewport{Min: 0, Max: 10}

	tests := []struct {
		name    string
		query   string
		want    models.Viewport
		wantErr bool
	}{
		{name: "full range", query: "", want: bounds},
		{name: "explicit window", query: "from=2&to=8", want: models.Viewport{Min: 2, Max: 8}},
		{name: "clamped to bounds", query: "from=-5&to=50", want: bounds},
		{name: "zoom in", query: "zoom=2", want: models.Viewport{Min: 2.5, Max: 7.5}},
		{name: "zoom refused below min span", query: "zoom=4", want: bounds},
		{name: "pan stays inside", query: "from=0&to=6&pan=10", want: models.Viewport{Min: 4, Max: 10}},
		{name: "too narrow", query: "from=3&to=5", wantErr: true},
		{name: "bad zoom", query: "zoom=lots", wantErr: true},
		{name: "bad pan", query: "pan=left", wantErr: true},
		{name: "NaN from", query: "from=NaN", wantErr: true},
		{name: "NaN to", query: "to=NaN", wantErr: true},
		{name: "infinite to", query: "from=0&to=Inf", wantErr: true},
		{name: "NaN zoom", query: "zoom=NaN", wantErr: true},
		{name: "NaN pan", query: "pan=NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := parseViewport(q, bounds)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}

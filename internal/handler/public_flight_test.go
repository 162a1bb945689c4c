package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
)

// --- hand mocks ------------------------------------------------------

type mockSearcher struct {
	filters []repository.SearchFilter
	flights []model.Flight
	status  []model.Flight
}

func (m *mockSearcher) Search(_ context.Context, fl repository.SearchFilter) ([]model.Flight, error) {
	m.filters = append(m.filters, fl)
	return m.flights, nil
}

func (m *mockSearcher) StatusOn(_ context.Context, _, _ string, _ time.Time) ([]model.Flight, error) {
	return m.status, nil
}

type mockAirports struct{ airports []model.Airport }

func (m *mockAirports) ListAirports(_ context.Context) ([]model.Airport, error) {
	return m.airports, nil
}

func doPublic(t *testing.T, fn echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, fn(e.NewContext(req, rec)))
	return rec
}

// --- tests -----------------------------------------------------------

func TestSearchWindow(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)

	// Searching the current day starts at now, not midnight.
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	from, to := searchWindow(day, now)
	assert.True(t, from.Equal(now))
	assert.True(t, to.Equal(endOfDay))

	// A future day keeps its own midnight as the lower bound.
	from, to = searchWindow(day, time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC))
	assert.True(t, from.Equal(day))
	assert.True(t, to.Equal(endOfDay))
}

func TestSearchFlightsSkipsDepartedToday(t *testing.T) {
	searcher := &mockSearcher{}
	h := NewPublicHandler(searcher, &mockAirports{})

	before := time.Now().UTC()
	today := before.Format("2006-01-02")
	rec := doPublic(t, h.SearchFlights, "/v1/flights/search?source=JFK&destination=LAX&date="+today)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, searcher.filters, 1)
	got := searcher.filters[0]
	assert.False(t, got.From.Before(before), "lower bound must not reach back to midnight")
	day, _ := time.Parse("2006-01-02", today)
	assert.True(t, got.To.Equal(day.Add(24*time.Hour-time.Second)))
}

func TestSearchFlightsPastDateReturnsNothing(t *testing.T) {
	searcher := &mockSearcher{flights: []model.Flight{{FlightNo: "JB1432"}}}
	h := NewPublicHandler(searcher, &mockAirports{})

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	rec := doPublic(t, h.SearchFlights, "/v1/flights/search?source=JFK&destination=LAX&date="+yesterday)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, searcher.filters, "a past day must not hit the store at all")

	var body map[string][]flightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body["outbound"])
}

func TestSearchFlightsPastReturnDateEmptyInbound(t *testing.T) {
	searcher := &mockSearcher{}
	h := NewPublicHandler(searcher, &mockAirports{})

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	rec := doPublic(t, h.SearchFlights,
		"/v1/flights/search?source=JFK&destination=LAX&return_date="+yesterday)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, searcher.filters, 1, "only the outbound leg may query")

	var body map[string][]flightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body["inbound"])
}

func TestSearchFlightsFutureReturnLegReversed(t *testing.T) {
	searcher := &mockSearcher{}
	h := NewPublicHandler(searcher, &mockAirports{})

	depart := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	back := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	rec := doPublic(t, h.SearchFlights,
		"/v1/flights/search?source=JFK&destination=LAX&date="+depart+"&return_date="+back)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, searcher.filters, 2)
	assert.Equal(t, "LAX", searcher.filters[1].Source)
	assert.Equal(t, "JFK", searcher.filters[1].Destination)
	backDay, _ := time.Parse("2006-01-02", back)
	assert.True(t, searcher.filters[1].From.Equal(backDay))
}

func TestFlightStatusNotFound(t *testing.T) {
	h := NewPublicHandler(&mockSearcher{}, &mockAirports{})
	rec := doPublic(t, h.FlightStatus,
		"/v1/flights/status?airline=Jet+Blue&flight_no=JB1432&date=2026-09-10")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

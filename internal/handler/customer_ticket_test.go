package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/airline-reservation/internal/middleware"
	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/schedule"
)

// --- hand mocks ------------------------------------------------------

type mockTickets struct {
	purchaseErr error
	purchased   *model.Ticket
	listed      []repository.TicketDetail
}

func (m *mockTickets) Purchase(_ context.Context, t *model.Ticket) error {
	if m.purchaseErr != nil {
		return m.purchaseErr
	}
	t.ID = 42
	t.SoldPriceCents = 19900
	t.PurchaseDatetime = time.Now().UTC()
	m.purchased = t
	return nil
}

func (m *mockTickets) ListByCustomer(_ context.Context, _ string, _, _ time.Time) ([]repository.TicketDetail, error) {
	return m.listed, nil
}

type mockFlights struct {
	flight *model.Flight
	err    error
}

func (m *mockFlights) Get(_ context.Context, _ model.FlightID) (*model.Flight, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.flight, nil
}

type mockRatings struct {
	createErr error
	created   *model.FlightRating
}

func (m *mockRatings) Create(_ context.Context, rt *model.FlightRating) error {
	if m.createErr != nil {
		return m.createErr
	}
	rt.ID = 7
	m.created = rt
	return nil
}

func (m *mockRatings) ListByCustomer(_ context.Context, _ string) ([]repository.RatingDetail, error) {
	return nil, nil
}

type mockSpending struct {
	total uint64
	rows  []repository.SpendingRow
}

func (m *mockSpending) Spending(_ context.Context, _ string, _, _ time.Time) (uint64, []repository.SpendingRow, error) {
	return m.total, m.rows, nil
}

// --- helpers ---------------------------------------------------------

func futureFlight() *model.Flight {
	dep := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	return &model.Flight{
		AirlineName:    "JetGo",
		FlightNo:       "JG101",
		DepDatetime:    dep,
		ArrDatetime:    dep.Add(6 * time.Hour),
		DepAirport:     "JFK",
		ArrAirport:     "LAX",
		BasePriceCents: 19900,
		Status:         model.FlightStatusOnTime,
		AirplaneID:     "N100",
	}
}

func purchaseBody(f *model.Flight) string {
	body := map[string]string{
		"airline_name": f.AirlineName,
		"flight_no":    f.FlightNo,
		"dep_datetime": f.DepDatetime.Format(schedule.MachineLayout),
		"card_type":    "visa",
		"card_number":  "4111111111111111",
		"card_name":    "Alice Adams",
		"card_expiry":  time.Now().UTC().AddDate(1, 0, 0).Format("01/06"),
		"cvc":          "123",
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func doPurchase(t *testing.T, h *CustomerHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/customer/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, "alice@example.com")
	c.Set(middleware.CtxRole, "CUSTOMER")
	require.NoError(t, h.PurchaseTicket(c))
	return rec
}

// --- tests -----------------------------------------------------------

func TestPurchaseTicketSuccess(t *testing.T) {
	f := futureFlight()
	tickets := &mockTickets{}
	h := NewCustomerHandler(tickets, &mockFlights{flight: f}, &mockRatings{}, &mockSpending{})

	rec := doPurchase(t, h, purchaseBody(f))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, tickets.purchased)
	assert.Equal(t, "alice@example.com", tickets.purchased.CustomerEmail)
	assert.Equal(t, "economy", tickets.purchased.ComfortClass, "comfort class defaults to economy")

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, `42`, string(resp["ticket_id"]))
	assert.JSONEq(t, `19900`, string(resp["sold_price_cents"]))
}

func TestPurchaseTicketSoldOut(t *testing.T) {
	f := futureFlight()
	h := NewCustomerHandler(&mockTickets{purchaseErr: repository.ErrSoldOut},
		&mockFlights{flight: f}, &mockRatings{}, &mockSpending{})

	rec := doPurchase(t, h, purchaseBody(f))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "sold out")
}

func TestPurchaseTicketDuplicate(t *testing.T) {
	f := futureFlight()
	h := NewCustomerHandler(&mockTickets{purchaseErr: repository.ErrTicketExists},
		&mockFlights{flight: f}, &mockRatings{}, &mockSpending{})

	rec := doPurchase(t, h, purchaseBody(f))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already hold a ticket")
}

func TestPurchaseTicketFlightNotFound(t *testing.T) {
	f := futureFlight()
	h := NewCustomerHandler(&mockTickets{},
		&mockFlights{err: repository.ErrFlightNotFound}, &mockRatings{}, &mockSpending{})

	rec := doPurchase(t, h, purchaseBody(f))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchaseTicketDepartedFlight(t *testing.T) {
	f := futureFlight()
	f.DepDatetime = time.Now().UTC().Add(-24 * time.Hour)
	f.ArrDatetime = f.DepDatetime.Add(6 * time.Hour)
	h := NewCustomerHandler(&mockTickets{}, &mockFlights{flight: f}, &mockRatings{}, &mockSpending{})

	body := purchaseBody(f)
	rec := doPurchase(t, h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already departed")
}

func TestPurchaseTicketRejectsBadPayment(t *testing.T) {
	f := futureFlight()
	tickets := &mockTickets{}
	h := NewCustomerHandler(tickets, &mockFlights{flight: f}, &mockRatings{}, &mockSpending{})

	cases := []struct {
		name  string
		field string
		value string
	}{
		{"short card number", "card_number", "1234"},
		{"bad cvc", "cvc", "12"},
		{"expired card", "card_expiry", "01/20"},
		{"bad expiry format", "card_expiry", "2025/01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]string
			require.NoError(t, json.Unmarshal([]byte(purchaseBody(f)), &body))
			body[tc.field] = tc.value
			b, _ := json.Marshal(body)

			rec := doPurchase(t, h, string(b))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, tickets.purchased, "validation failures never reach the store")
		})
	}
}

func TestPurchaseTicketRejectsUnknownComfortClass(t *testing.T) {
	f := futureFlight()
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(purchaseBody(f)), &body))
	body["comfort_class"] = "premium-plus"
	b, _ := json.Marshal(body)

	h := NewCustomerHandler(&mockTickets{}, &mockFlights{flight: f}, &mockRatings{}, &mockSpending{})
	rec := doPurchase(t, h, string(b))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTicketsRendersDisplayFields(t *testing.T) {
	dep := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	h := NewCustomerHandler(&mockTickets{listed: []repository.TicketDetail{{
		ID:             1,
		AirlineName:    "JetGo",
		FlightNo:       "JG101",
		DepDatetime:    dep,
		ArrDatetime:    dep.Add(6 * time.Hour),
		DepAirport:     "JFK",
		ArrAirport:     "LAX",
		Status:         model.FlightStatusOnTime,
		ComfortClass:   "economy",
		SoldPriceCents: 19900,
		PurchasedAt:    dep.AddDate(0, -1, 0),
	}}}, &mockFlights{flight: futureFlight()}, &mockRatings{}, &mockSpending{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/customer/tickets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, "alice@example.com")
	require.NoError(t, h.ListTickets(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"dep_datetime":"2026-07-01 12:00:00"`)
	// 12:00 UTC is 8:00 AM in New York in July.
	assert.Contains(t, body, `"dep_time_display":"8:00 AM"`)
	assert.Contains(t, body, `"duration":"06h 00m"`)
}

func TestListTicketsRejectsBadDateBound(t *testing.T) {
	h := NewCustomerHandler(&mockTickets{}, &mockFlights{flight: futureFlight()}, &mockRatings{}, &mockSpending{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/customer/tickets?from=01-07-2026", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, "alice@example.com")
	require.NoError(t, h.ListTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpending(t *testing.T) {
	h := NewCustomerHandler(&mockTickets{}, &mockFlights{flight: futureFlight()}, &mockRatings{},
		&mockSpending{total: 39800, rows: []repository.SpendingRow{
			{Month: "2026-06", TotalCents: 19900, Tickets: 1},
			{Month: "2026-07", TotalCents: 19900, Tickets: 1},
		}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/customer/spending", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, "alice@example.com")
	require.NoError(t, h.GetSpending(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_cents":39800`)
	assert.Contains(t, rec.Body.String(), `"2026-06"`)
}

func TestCreateRating(t *testing.T) {
	dep := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	body := func(rating uint8) string {
		b, _ := json.Marshal(map[string]interface{}{
			"airline_name": "JetGo",
			"flight_no":    "JG101",
			"dep_datetime": dep.Format(schedule.MachineLayout),
			"rating":       rating,
			"comment":      "smooth flight",
		})
		return string(b)
	}
	do := func(h *CustomerHandler, body string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/customer/ratings", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(middleware.CtxEmail, "alice@example.com")
		require.NoError(t, h.CreateRating(c))
		return rec
	}

	ratings := &mockRatings{}
	h := NewCustomerHandler(&mockTickets{}, &mockFlights{flight: futureFlight()}, ratings, &mockSpending{})

	rec := do(h, body(5))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, ratings.created)
	assert.Equal(t, uint8(5), ratings.created.Rating)
	require.NotNil(t, ratings.created.Comment)
	assert.Equal(t, "smooth flight", *ratings.created.Comment)

	rec = do(h, body(0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(h, body(6))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewCustomerHandler(&mockTickets{}, &mockFlights{flight: futureFlight()},
		&mockRatings{createErr: repository.ErrNotEligible}, &mockSpending{})
	rec = do(h, body(4))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "flights you have flown")

	h = NewCustomerHandler(&mockTickets{}, &mockFlights{flight: futureFlight()},
		&mockRatings{createErr: repository.ErrRatingExists}, &mockSpending{})
	rec = do(h, body(4))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/metrics"
	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/queue"
	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/schedule"
	queue_publisher "github.com/skybook/airline-reservation/internal/service"
	"github.com/skybook/airline-reservation/internal/validate"
)

// TicketStore is the slice of the ticket repository the customer
// handler needs. Declared here so tests can substitute a mock.
type TicketStore interface {
	Purchase(ctx context.Context, t *model.Ticket) error
	ListByCustomer(ctx context.Context, email string, from, to time.Time) ([]repository.TicketDetail, error)
}

// FlightGetter loads one flight by its identity triple.
type FlightGetter interface {
	Get(ctx context.Context, id model.FlightID) (*model.Flight, error)
}

// RatingStore is the slice of the rating repository used by customers.
type RatingStore interface {
	Create(ctx context.Context, rt *model.FlightRating) error
	ListByCustomer(ctx context.Context, email string) ([]repository.RatingDetail, error)
}

// SpendingReader sums a customer's purchases.
type SpendingReader interface {
	Spending(ctx context.Context, email string, from, to time.Time) (uint64, []repository.SpendingRow, error)
}

// CustomerHandler groups the stores behind the customer-facing ticket,
// rating and spending endpoints. JWT authentication and the CUSTOMER
// role gate run before any method here.
type CustomerHandler struct {
	Tickets  TicketStore
	Flights  FlightGetter
	Ratings  RatingStore
	Spending SpendingReader
}

// NewCustomerHandler constructs a CustomerHandler. All dependencies
// must be non-nil.
func NewCustomerHandler(tickets TicketStore, flights FlightGetter, ratings RatingStore, spending SpendingReader) *CustomerHandler {
	if tickets == nil || flights == nil || ratings == nil || spending == nil {
		panic("nil store passed to NewCustomerHandler")
	}
	return &CustomerHandler{Tickets: tickets, Flights: flights, Ratings: ratings, Spending: spending}
}

type purchaseReq struct {
	AirlineName  string `json:"airline_name"`
	FlightNo     string `json:"flight_no"`
	DepDatetime  string `json:"dep_datetime"` // machine key "2006-01-02 15:04:05"
	ComfortClass string `json:"comfort_class"`
	CardType     string `json:"card_type"`
	CardNumber   string `json:"card_number"`
	CardName     string `json:"card_name"`
	CardExpiry   string `json:"card_expiry"` // MM/YY
	CVC          string `json:"cvc"`
}

// PurchaseTicket handles POST /v1/customer/tickets. After payment
// validation the actual capacity guard and duplicate ban run inside
// the repository transaction; this handler only translates its
// sentinel errors. The CVC is validated and discarded, never stored.
func (h *CustomerHandler) PurchaseTicket(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.AirlineName = strings.TrimSpace(req.AirlineName)
	req.FlightNo = strings.TrimSpace(req.FlightNo)
	if req.AirlineName == "" || req.FlightNo == "" || strings.TrimSpace(req.DepDatetime) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight identity (airline_name, flight_no, dep_datetime) is required"})
	}
	dep, err := parseFlightKey(req.DepDatetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dep_datetime, use YYYY-MM-DD HH:MM:SS"})
	}
	if ok, reason := validate.CardNumber(strings.TrimSpace(req.CardNumber)); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.CVC(strings.TrimSpace(req.CVC)); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.CardExpiry(strings.TrimSpace(req.CardExpiry), time.Now().UTC()); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	class := strings.ToLower(strings.TrimSpace(req.ComfortClass))
	switch class {
	case "":
		class = "economy"
	case "economy", "business", "first":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comfort_class must be economy, business or first"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := model.FlightID{AirlineName: req.AirlineName, FlightNo: req.FlightNo, DepDatetime: dep}
	flight, err := h.Flights.Get(ctx, id)
	if err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !flight.DepDatetime.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight has already departed"})
	}

	ticket := &model.Ticket{
		AirlineName:   req.AirlineName,
		FlightNo:      req.FlightNo,
		DepDatetime:   dep,
		CustomerEmail: email,
		ComfortClass:  class,
		CardType:      strings.TrimSpace(req.CardType),
		CardNumber:    strings.TrimSpace(req.CardNumber),
		CardName:      strings.TrimSpace(req.CardName),
		CardExpiry:    strings.TrimSpace(req.CardExpiry),
	}
	if err := h.Tickets.Purchase(ctx, ticket); err != nil {
		switch err {
		case repository.ErrFlightNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrTicketExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already hold a ticket for this flight"})
		case repository.ErrSoldOut:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight is sold out"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
	}
	metrics.TicketsSold.WithLabelValues(ticket.AirlineName).Inc()

	// Best effort: the purchase is committed, a broker outage only
	// costs the event.
	ev := queue.TicketPurchasedEvent{
		TicketID:       ticket.ID,
		AirlineName:    ticket.AirlineName,
		FlightNo:       ticket.FlightNo,
		DepDatetime:    ticket.DepDatetime.UTC().Format(schedule.MachineLayout),
		DepAirport:     flight.DepAirport,
		ArrAirport:     flight.ArrAirport,
		CustomerEmail:  ticket.CustomerEmail,
		SoldPriceCents: ticket.SoldPriceCents,
		ComfortClass:   ticket.ComfortClass,
		PurchasedAt:    ticket.PurchaseDatetime.UTC().Format(time.RFC3339),
	}
	go func() { _ = queue_publisher.PublishTicketPurchased(context.Background(), ev) }()

	return c.JSON(http.StatusCreated, echo.Map{
		"ticket_id":        ticket.ID,
		"sold_price_cents": ticket.SoldPriceCents,
		"flight":           toFlightResponse(*flight),
	})
}

// ticketResponse is one owned ticket with display datetimes and the
// timezone-aware duration.
type ticketResponse struct {
	ID             uint64 `json:"id"`
	AirlineName    string `json:"airline_name"`
	FlightNo       string `json:"flight_no"`
	DepDatetime    string `json:"dep_datetime"`
	ArrDatetime    string `json:"arr_datetime"`
	DepAirport     string `json:"dep_airport"`
	ArrAirport     string `json:"arr_airport"`
	DepDateDisplay string `json:"dep_date_display"`
	DepTimeDisplay string `json:"dep_time_display"`
	ArrDateDisplay string `json:"arr_date_display"`
	ArrTimeDisplay string `json:"arr_time_display"`
	Duration       string `json:"duration"`
	Status         string `json:"status"`
	ComfortClass   string `json:"comfort_class"`
	SoldPriceCents uint32 `json:"sold_price_cents"`
	PurchasedAt    string `json:"purchased_at"`
}

// ListTickets handles GET /v1/customer/tickets. Optional from/to query
// parameters (YYYY-MM-DD) bound the departure date, so past and
// upcoming trips can be listed separately.
func (h *CustomerHandler) ListTickets(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var from, to time.Time
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, use YYYY-MM-DD"})
		}
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date, use YYYY-MM-DD"})
		}
		to = to.Add(24*time.Hour - time.Second)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	tickets, err := h.Tickets.ListByCustomer(ctx, email, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		depDate, depTime := schedule.FormatDisplay(t.DepDatetime, t.DepAirport)
		arrDate, arrTime := schedule.FormatDisplay(t.ArrDatetime, t.ArrAirport)
		naive := schedule.FormatElapsed(t.ArrDatetime.Sub(t.DepDatetime))
		out = append(out, ticketResponse{
			ID:             t.ID,
			AirlineName:    t.AirlineName,
			FlightNo:       t.FlightNo,
			DepDatetime:    t.DepDatetime.UTC().Format(schedule.MachineLayout),
			ArrDatetime:    t.ArrDatetime.UTC().Format(schedule.MachineLayout),
			DepAirport:     t.DepAirport,
			ArrAirport:     t.ArrAirport,
			DepDateDisplay: depDate,
			DepTimeDisplay: depTime,
			ArrDateDisplay: arrDate,
			ArrTimeDisplay: arrTime,
			Duration: schedule.Duration(t.DepAirport, t.ArrAirport,
				depDate, depTime, arrDate, arrTime, naive),
			Status:         t.Status,
			ComfortClass:   t.ComfortClass,
			SoldPriceCents: t.SoldPriceCents,
			PurchasedAt:    t.PurchasedAt.UTC().Format(schedule.MachineLayout),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

// GetSpending handles GET /v1/customer/spending. Defaults to the
// trailing six months when no bounds are given.
func (h *CustomerHandler) GetSpending(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	now := time.Now().UTC()
	from := now.AddDate(0, -6, 0)
	to := now
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, use YYYY-MM-DD"})
		}
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date, use YYYY-MM-DD"})
		}
		to = to.Add(24*time.Hour - time.Second)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	total, monthly, err := h.Spending.Spending(ctx, email, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_cents": total,
		"monthly":     monthly,
	})
}

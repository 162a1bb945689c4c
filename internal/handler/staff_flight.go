package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/validate"
)

// FlightCatalog is the slice of the flight repository used by staff.
// Declared here so tests can substitute a mock.
type FlightCatalog interface {
	Create(ctx context.Context, f *model.Flight) error
	Get(ctx context.Context, id model.FlightID) (*model.Flight, error)
	UpdateStatus(ctx context.Context, id model.FlightID, status string) error
	ListByAirline(ctx context.Context, airline string, fl repository.SearchFilter) ([]model.Flight, error)
	Passengers(ctx context.Context, id model.FlightID) ([]repository.Passenger, error)
}

// FleetStore registers and lists airplanes and answers airport
// existence checks.
type FleetStore interface {
	Create(ctx context.Context, a *model.Airplane) error
	ListByAirline(ctx context.Context, airline string) ([]model.Airplane, error)
	AirportExists(ctx context.Context, code string) (bool, error)
}

// SalesReader aggregates ticket sales for the staff reports.
type SalesReader interface {
	SalesByMonth(ctx context.Context, airline string, from, to time.Time) ([]repository.SalesRow, error)
	TopDestinations(ctx context.Context, airline string, months, limit int) ([]repository.DestinationRow, error)
}

// RatingReader lists a flight's ratings with their average.
type RatingReader interface {
	ListForFlight(ctx context.Context, id model.FlightID) ([]repository.RatingDetail, float64, error)
}

// PhoneBook manages a staff member's contact numbers.
type PhoneBook interface {
	AddPhone(ctx context.Context, username, phone string) error
	ListPhones(ctx context.Context, username string) ([]model.StaffPhone, error)
	DeletePhone(ctx context.Context, username, phone string) error
}

// StaffHandler groups the stores behind airline staff operations.
// Every method derives the airline from the session claims, never from
// the request, so a staff session for one airline cannot view or
// modify another airline's flights, airplanes or reports.
type StaffHandler struct {
	Flights   FlightCatalog
	Airplanes FleetStore
	Tickets   SalesReader
	Ratings   RatingReader
	Staff     PhoneBook
}

// NewStaffHandler constructs a StaffHandler and panics if any
// dependency is nil.
func NewStaffHandler(flights FlightCatalog, airplanes FleetStore, tickets SalesReader, ratings RatingReader, staff PhoneBook) *StaffHandler {
	if flights == nil || airplanes == nil || tickets == nil || ratings == nil || staff == nil {
		panic("nil store passed to NewStaffHandler")
	}
	return &StaffHandler{Flights: flights, Airplanes: airplanes, Tickets: tickets, Ratings: ratings, Staff: staff}
}

type createFlightReq struct {
	FlightNo       string `json:"flight_no"`
	DepAirport     string `json:"dep_airport"`
	ArrAirport     string `json:"arr_airport"`
	DepDatetime    string `json:"dep_datetime"` // machine key
	ArrDatetime    string `json:"arr_datetime"` // machine key
	BasePriceCents uint32 `json:"base_price_cents"`
	Status         string `json:"status"`
	AirplaneID     string `json:"airplane_id"`
}

// CreateFlight handles POST /v1/staff/flights. The flight is created
// under the staff member's own airline; the assigned airplane must
// belong to that airline, the airports must differ and exist, and the
// arrival must be strictly after the departure.
func (h *StaffHandler) CreateFlight(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FlightNo = strings.TrimSpace(req.FlightNo)
	req.DepAirport = strings.ToUpper(strings.TrimSpace(req.DepAirport))
	req.ArrAirport = strings.ToUpper(strings.TrimSpace(req.ArrAirport))
	req.AirplaneID = strings.TrimSpace(req.AirplaneID)
	if req.FlightNo == "" || req.DepAirport == "" || req.ArrAirport == "" || req.AirplaneID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_no, dep_airport, arr_airport and airplane_id are required"})
	}
	if req.DepAirport == req.ArrAirport {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure and arrival airports must differ"})
	}
	dep, err := parseFlightKey(req.DepDatetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dep_datetime, use YYYY-MM-DD HH:MM:SS"})
	}
	arr, err := parseFlightKey(req.ArrDatetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arr_datetime, use YYYY-MM-DD HH:MM:SS"})
	}
	if ok, reason := validate.ArrivalAfterDeparture(dep, arr); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.FlightStatusOnTime
	}
	if status != model.FlightStatusOnTime && status != model.FlightStatusDelayed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be on-time or delayed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for _, code := range []string{req.DepAirport, req.ArrAirport} {
		exists, err := h.Airplanes.AirportExists(ctx, code)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if !exists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown airport " + code})
		}
	}

	f := &model.Flight{
		AirlineName:    airline,
		FlightNo:       req.FlightNo,
		DepDatetime:    dep,
		DepAirport:     req.DepAirport,
		ArrAirport:     req.ArrAirport,
		ArrDatetime:    arr,
		BasePriceCents: req.BasePriceCents,
		Status:         status,
		AirplaneID:     req.AirplaneID,
	}
	if err := h.Flights.Create(ctx, f); err != nil {
		switch err {
		case repository.ErrAirplaneNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane does not belong to your airline"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "a flight with this identity already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flight failed"})
	}
	return c.JSON(http.StatusCreated, toFlightResponse(*f))
}

// ListFlights handles GET /v1/staff/flights. With no bounds it shows
// the airline's flights departing in the next 30 days; from/to
// (YYYY-MM-DD) and source/destination narrow the listing.
func (h *StaffHandler) ListFlights(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	now := time.Now().UTC()
	filter := repository.SearchFilter{
		Source:      strings.ToUpper(strings.TrimSpace(c.QueryParam("source"))),
		Destination: strings.ToUpper(strings.TrimSpace(c.QueryParam("destination"))),
		From:        now,
		To:          now.AddDate(0, 0, 30),
	}
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		filter.From, err = time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, use YYYY-MM-DD"})
		}
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date, use YYYY-MM-DD"})
		}
		filter.To = to.Add(24*time.Hour - time.Second)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	flights, err := h.Flights.ListByAirline(ctx, airline, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": toFlightResponses(flights)})
}

type updateStatusReq struct {
	FlightNo    string `json:"flight_no"`
	DepDatetime string `json:"dep_datetime"` // machine key
	Status      string `json:"status"`
}

// UpdateFlightStatus handles PATCH /v1/staff/flights/status. The
// airline in the identity triple comes from the session, so only own
// flights are reachable.
func (h *StaffHandler) UpdateFlightStatus(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FlightNo = strings.TrimSpace(req.FlightNo)
	dep, err := parseFlightKey(req.DepDatetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dep_datetime, use YYYY-MM-DD HH:MM:SS"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != model.FlightStatusOnTime && status != model.FlightStatusDelayed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be on-time or delayed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	id := model.FlightID{AirlineName: airline, FlightNo: req.FlightNo, DepDatetime: dep}
	if err := h.Flights.UpdateStatus(ctx, id, status); err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// ListPassengers handles GET /v1/staff/flights/passengers with
// flight_no and dep_datetime query parameters.
func (h *StaffHandler) ListPassengers(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	flightNo := strings.TrimSpace(c.QueryParam("flight_no"))
	dep, err := parseFlightKey(c.QueryParam("dep_datetime"))
	if flightNo == "" || err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_no and dep_datetime are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	id := model.FlightID{AirlineName: airline, FlightNo: flightNo, DepDatetime: dep}
	passengers, err := h.Flights.Passengers(ctx, id)
	if err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"passengers": passengers})
}

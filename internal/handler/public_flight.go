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

// FlightSearcher is the slice of the flight repository behind the
// public browse endpoints. Declared here so tests can substitute a
// mock.
type FlightSearcher interface {
	Search(ctx context.Context, fl repository.SearchFilter) ([]model.Flight, error)
	StatusOn(ctx context.Context, airline, flightNo string, day time.Time) ([]model.Flight, error)
}

// AirportDirectory lists the airport reference table.
type AirportDirectory interface {
	ListAirports(ctx context.Context) ([]model.Airport, error)
}

// PublicHandler exposes the unauthenticated browse endpoints: flight
// search, status lookup and the airport list. These are GET routes and
// sit behind the Redis response cache.
type PublicHandler struct {
	Flights  FlightSearcher
	Airports AirportDirectory
}

func NewPublicHandler(flights FlightSearcher, airports AirportDirectory) *PublicHandler {
	if flights == nil || airports == nil {
		panic("nil store passed to NewPublicHandler")
	}
	return &PublicHandler{Flights: flights, Airports: airports}
}

// searchWindow bounds one leg of a search to the requested day. The
// lower bound is clamped forward to now so flights that have already
// departed never come back, including earlier departures on the
// current day.
func searchWindow(day, now time.Time) (from, to time.Time) {
	from, to = day, day.Add(24*time.Hour-time.Second)
	if now.After(from) {
		from = now
	}
	return from, to
}

// SearchFlights handles GET /v1/flights/search. Query parameters:
// source, destination (airport code or city), date (YYYY-MM-DD) and
// optionally return_date for a round trip. Only future flights are
// returned; a round trip searches the reverse leg on the return date
// and must not depart before the outbound date.
func (h *PublicHandler) SearchFlights(c echo.Context) error {
	source := strings.TrimSpace(c.QueryParam("source"))
	destination := strings.TrimSpace(c.QueryParam("destination"))
	date := strings.TrimSpace(c.QueryParam("date"))
	returnDate := strings.TrimSpace(c.QueryParam("return_date"))

	filter := repository.SearchFilter{Source: source, Destination: destination}
	now := time.Now().UTC()
	filter.From = now
	if date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, use YYYY-MM-DD"})
		}
		filter.From, filter.To = searchWindow(day, now)
		if filter.To.Before(now) {
			// Past dates yield nothing; only future flights are bookable.
			return c.JSON(http.StatusOK, echo.Map{"outbound": []flightResponse{}})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	outbound, err := h.Flights.Search(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	resp := echo.Map{"outbound": toFlightResponses(outbound)}

	if returnDate != "" {
		if date != "" {
			if ok, reason := validate.ReturnNotBeforeDeparture(date, returnDate); !ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
			}
		}
		day, err := time.Parse("2006-01-02", returnDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid return date, use YYYY-MM-DD"})
		}
		from, to := searchWindow(day, now)
		if to.Before(now) {
			resp["inbound"] = []flightResponse{}
			return c.JSON(http.StatusOK, resp)
		}
		back, err := h.Flights.Search(ctx, repository.SearchFilter{
			Source:      destination,
			Destination: source,
			From:        from,
			To:          to,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
		}
		resp["inbound"] = toFlightResponses(back)
	}
	return c.JSON(http.StatusOK, resp)
}

// FlightStatus handles GET /v1/flights/status. Query parameters:
// airline, flight_no and date (YYYY-MM-DD). A flight number may fly
// more than once per date, so the response is a list.
func (h *PublicHandler) FlightStatus(c echo.Context) error {
	airline := strings.TrimSpace(c.QueryParam("airline"))
	flightNo := strings.TrimSpace(c.QueryParam("flight_no"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if airline == "" || flightNo == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airline, flight_no and date are required"})
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, use YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	flights, err := h.Flights.StatusOn(ctx, airline, flightNo, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if len(flights) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": toFlightResponses(flights)})
}

// ListAirports handles GET /v1/airports.
func (h *PublicHandler) ListAirports(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	airports, err := h.Airports.ListAirports(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	out := make([]echo.Map, 0, len(airports))
	for _, a := range airports {
		out = append(out, echo.Map{"code": a.Code, "name": a.Name, "city": a.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"airports": out})
}

func toFlightResponses(flights []model.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightResponse(f))
	}
	return out
}

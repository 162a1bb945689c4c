package handler // handler defines the HTTP handlers behind the router

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/middleware"
	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/schedule"
)

var errNoIdentity = errors.New("no identity in context")

// currentEmail extracts the authenticated login email placed in the
// context by the JWT middleware.
func currentEmail(c echo.Context) (string, error) {
	if v, ok := c.Get(middleware.CtxEmail).(string); ok && v != "" {
		return v, nil
	}
	return "", errNoIdentity
}

// staffScope extracts the staff identity (username + airline) from the
// context. Staff tokens always carry both; anything else means the
// request slipped past the role gate and is rejected upstream as 401.
func staffScope(c echo.Context) (username, airline string, err error) {
	username, _ = c.Get(middleware.CtxUsername).(string)
	airline, _ = c.Get(middleware.CtxAirline).(string)
	if username == "" || airline == "" {
		return "", "", errNoIdentity
	}
	return username, airline, nil
}

// parseFlightKey parses the machine-sortable departure key
// ("2006-01-02 15:04:05") used wherever a flight identity crosses the
// boundary.
func parseFlightKey(s string) (time.Time, error) {
	return time.Parse(schedule.MachineLayout, strings.TrimSpace(s))
}

// flightResponse is the flight shape shared by public search, staff
// listings and status lookups. Departure and arrival are rendered both
// as the machine key and as display strings localized to each airport,
// all derived from the stored UTC instants.
type flightResponse struct {
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
	BasePriceCents uint32 `json:"base_price_cents"`
	Status         string `json:"status"`
	AirplaneID     string `json:"airplane_id,omitempty"`
}

// toFlightResponse renders a flight for the boundary. The duration
// starts from the naive UTC difference and is then recomputed from the
// airport-localized display strings; on any parse trouble the naive
// value stands.
func toFlightResponse(f model.Flight) flightResponse {
	depDate, depTime := schedule.FormatDisplay(f.DepDatetime, f.DepAirport)
	arrDate, arrTime := schedule.FormatDisplay(f.ArrDatetime, f.ArrAirport)
	naive := schedule.FormatElapsed(f.ArrDatetime.Sub(f.DepDatetime))
	return flightResponse{
		AirlineName:    f.AirlineName,
		FlightNo:       f.FlightNo,
		DepDatetime:    f.DepDatetime.UTC().Format(schedule.MachineLayout),
		ArrDatetime:    f.ArrDatetime.UTC().Format(schedule.MachineLayout),
		DepAirport:     f.DepAirport,
		ArrAirport:     f.ArrAirport,
		DepDateDisplay: depDate,
		DepTimeDisplay: depTime,
		ArrDateDisplay: arrDate,
		ArrTimeDisplay: arrTime,
		Duration: schedule.Duration(f.DepAirport, f.ArrAirport,
			depDate, depTime, arrDate, arrTime, naive),
		BasePriceCents: f.BasePriceCents,
		Status:         f.Status,
		AirplaneID:     f.AirplaneID,
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
)

// SalesReport handles GET /v1/staff/reports/sales. Optional from/to
// (YYYY-MM-DD) bound the purchase date; the default window is the
// trailing year. Rows are grouped per calendar month.
func (h *StaffHandler) SalesReport(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
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
	rows, err := h.Tickets.SalesByMonth(ctx, airline, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var tickets uint64
	var revenue uint64
	for _, r := range rows {
		tickets += uint64(r.Tickets)
		revenue += r.RevenueCents
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_tickets":       tickets,
		"total_revenue_cents": revenue,
		"monthly":             rows,
	})
}

// TopDestinations handles GET /v1/staff/reports/destinations, ranking
// the airline's arrival cities by tickets sold over the trailing
// months (default 3).
func (h *StaffHandler) TopDestinations(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	months := 3
	if v := strings.TrimSpace(c.QueryParam("months")); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "months must be a positive integer"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rows, err := h.Tickets.TopDestinations(ctx, airline, months, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"destinations": rows, "months": months})
}

// FlightRatings handles GET /v1/staff/ratings with flight_no and
// dep_datetime query parameters. Only the owning airline's staff see a
// flight's ratings and their average.
func (h *StaffHandler) FlightRatings(c echo.Context) error {
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
	if _, err := h.Flights.Get(ctx, id); err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ratings, avg, err := h.Ratings.ListForFlight(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ratings": ratings, "average": avg})
}

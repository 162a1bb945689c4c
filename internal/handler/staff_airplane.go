package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
)

type createAirplaneReq struct {
	AirplaneID   string `json:"airplane_id"`
	SeatCapacity uint32 `json:"seat_capacity"`
	Manufacturer string `json:"manufacturer"`
	Age          uint32 `json:"age"`
}

// CreateAirplane handles POST /v1/staff/airplanes. The airplane is
// registered under the staff member's own airline.
func (h *StaffHandler) CreateAirplane(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAirplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.AirplaneID = strings.TrimSpace(req.AirplaneID)
	if req.AirplaneID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane_id is required"})
	}
	if req.SeatCapacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_capacity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a := &model.Airplane{
		AirlineName:  airline,
		AirplaneID:   req.AirplaneID,
		SeatCapacity: req.SeatCapacity,
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		Age:          req.Age,
	}
	if err := h.Airplanes.Create(ctx, a); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airplane failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"airline_name":  a.AirlineName,
		"airplane_id":   a.AirplaneID,
		"seat_capacity": a.SeatCapacity,
	})
}

// ListAirplanes handles GET /v1/staff/airplanes for the staff
// member's airline.
func (h *StaffHandler) ListAirplanes(c echo.Context) error {
	_, airline, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	planes, err := h.Airplanes.ListByAirline(ctx, airline)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(planes))
	for _, a := range planes {
		out = append(out, echo.Map{
			"airplane_id":   a.AirplaneID,
			"seat_capacity": a.SeatCapacity,
			"manufacturer":  a.Manufacturer,
			"age":           a.Age,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"airplanes": out})
}

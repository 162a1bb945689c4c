package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/handler"
	"github.com/skybook/airline-reservation/internal/middleware"
	"github.com/skybook/airline-reservation/internal/utils"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1/staff.
// Every handler derives the airline from the session claims, never
// from the request body, so a staff member can only ever touch their
// own airline's data.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1/staff",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleStaff),
	)

	// ---- Flights ----
	g.POST("/flights", h.CreateFlight)
	g.GET("/flights", h.ListFlights)
	g.PATCH("/flights/status", h.UpdateFlightStatus)
	g.GET("/flights/passengers", h.ListPassengers)
	g.GET("/ratings", h.FlightRatings)

	// ---- Airplanes ----
	g.POST("/airplanes", h.CreateAirplane)
	g.GET("/airplanes", h.ListAirplanes)

	// ---- Reports ----
	g.GET("/reports/sales", h.SalesReport)
	g.GET("/reports/destinations", h.TopDestinations)

	// ---- Contact phones ----
	g.POST("/phones", h.AddPhone)
	g.GET("/phones", h.ListPhones)
	g.DELETE("/phones", h.DeletePhone)
}

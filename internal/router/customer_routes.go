package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/handler"
	"github.com/skybook/airline-reservation/internal/middleware"
	"github.com/skybook/airline-reservation/internal/utils"
)

// RegisterCustomer registers customer-scoped endpoints under
// /v1/customer. All routes require a valid JWT carrying the CUSTOMER
// role.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/customer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleCustomer),
	)

	g.POST("/tickets", h.PurchaseTicket)
	g.GET("/tickets", h.ListTickets)
	g.GET("/spending", h.GetSpending)

	g.POST("/ratings", h.CreateRating)
	g.GET("/ratings", h.ListMyRatings)
}

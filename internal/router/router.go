package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/skybook/airline-reservation/internal/config"
	"github.com/skybook/airline-reservation/internal/handler"
	"github.com/skybook/airline-reservation/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication at all:
// the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication endpoints. Registration,
// login and token exchange live under /v1/auth and require no session;
// /v1/me requires a valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register/customer", a.RegisterCustomer)
	g.POST("/register/staff", a.RegisterStaff)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout invalidates the refresh token from the body; it does not
	// need a live access token so that expired sessions can still end.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Authenticated logout: with no refresh_token in the body this
	// revokes every session of the account.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the guest browse endpoints. These are the
// hottest read paths, so they sit behind the Redis response cache and
// the token-bucket rate limiter.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	mws := []echo.MiddlewareFunc{}
	if rdb != nil {
		mws = append(mws,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}
	g := e.Group("/v1", mws...)
	g.GET("/flights/search", p.SearchFlights)
	g.GET("/flights/status", p.FlightStatus)
	g.GET("/airports", p.ListAirports)
}

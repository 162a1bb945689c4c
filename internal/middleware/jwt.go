package middleware // reusable HTTP middleware shared by all route groups

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxEmail    = "email"
	CtxRole     = "role"
	CtxName     = "name"
	CtxAirline  = "airline"
	CtxUsername = "username"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the identity claims into the request context.
// Handlers read them back via c.Get(CtxEmail) etc.; staff-only keys
// (airline, username) are set only when present in the token. Requests
// without a valid token are rejected with 401 so an anonymous session
// never reaches a protected handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			email, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if email == "" || (role != utils.RoleCustomer && role != utils.RoleStaff) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(CtxEmail, email)
			c.Set(CtxRole, role)
			if name, ok := claims["name"].(string); ok {
				c.Set(CtxName, name)
			}
			if airline, ok := claims["airline"].(string); ok {
				c.Set(CtxAirline, airline)
			}
			if username, ok := claims["username"].(string); ok {
				c.Set(CtxUsername, username)
			}
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybook/airline-reservation/internal/utils"
)

const testSecret = "mw-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _ := invoke(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = invoke(t, JWTAuth(testSecret), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _ := invoke(t, JWTAuth(testSecret), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	at, err := utils.NewAccessToken("other-secret", utils.Identity{
		Email: "a@b.c", Role: utils.RoleCustomer,
	}, 15)
	require.NoError(t, err)
	rec, _ = invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthSetsCustomerContext(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, utils.Identity{
		Email: "alice@example.com", Role: utils.RoleCustomer, Name: "Alice",
	}, 15)
	require.NoError(t, err)

	rec, c := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", c.Get(CtxEmail))
	assert.Equal(t, utils.RoleCustomer, c.Get(CtxRole))
	assert.Equal(t, "Alice", c.Get(CtxName))
	assert.Nil(t, c.Get(CtxAirline))
	assert.Nil(t, c.Get(CtxUsername))
}

func TestJWTAuthSetsStaffContext(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, utils.Identity{
		Email: "bob@jetgo.example", Role: utils.RoleStaff, Name: "Bob",
		Airline: "JetGo", Username: "bob",
	}, 15)
	require.NoError(t, err)

	rec, c := invoke(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, utils.RoleStaff, c.Get(CtxRole))
	assert.Equal(t, "JetGo", c.Get(CtxAirline))
	assert.Equal(t, "bob", c.Get(CtxUsername))
}

func TestRequireRole(t *testing.T) {
	run := func(setRole string, allowed ...string) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/staff/flights", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if setRole != "" {
			c.Set(CtxRole, setRole)
		}
		h := RequireRole(allowed...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(utils.RoleStaff, utils.RoleStaff))
	assert.Equal(t, http.StatusForbidden, run(utils.RoleCustomer, utils.RoleStaff))
	assert.Equal(t, http.StatusForbidden, run(utils.RoleStaff, utils.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, run("", utils.RoleStaff), "no role set at all")
	assert.Equal(t, http.StatusOK, run(utils.RoleCustomer, utils.RoleCustomer, utils.RoleStaff))
}

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/config"
	"github.com/skybook/airline-reservation/internal/metrics"
	"github.com/skybook/airline-reservation/internal/middleware"
	"github.com/skybook/airline-reservation/internal/model"
	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/utils"
	"github.com/skybook/airline-reservation/internal/validate"
)

// AuthHandler bundles dependencies for registration, login and token
// endpoints. Login checks the union of customers and airline staff:
// one email space, two account kinds.
type AuthHandler struct {
	Cfg       config.Config
	Customers *repository.CustomerRepo
	Staff     *repository.StaffRepo
	Tokens    *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, cu *repository.CustomerRepo, st *repository.StaffRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Customers: cu, Staff: st, Tokens: t}
}

// ----- DTOs -----

type registerCustomerReq struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Name               string `json:"name"`
	BuildingNo         string `json:"building_no"`
	Street             string `json:"street"`
	City               string `json:"city"`
	State              string `json:"state"`
	PhoneNumber        string `json:"phone_number"`
	PassportNumber     string `json:"passport_number"`
	PassportExpiration string `json:"passport_expiration"` // YYYY-MM-DD
	PassportCountry    string `json:"passport_country"`
	DateOfBirth        string `json:"date_of_birth"` // YYYY-MM-DD
}

type registerStaffReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AirlineName string `json:"airline_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Airline string `json:"airline,omitempty"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// RegisterCustomer creates a customer account after running the full
// set of form validators. Validation failures return 400 with the
// reason; a taken email returns 409.
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req registerCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.PassportNumber = strings.TrimSpace(req.PassportNumber)
	req.PassportCountry = strings.TrimSpace(req.PassportCountry)

	if ok, reason := validate.Required([][2]string{
		{"email", req.Email},
		{"name", req.Name},
		{"password", req.Password},
		{"phone_number", req.PhoneNumber},
		{"passport_number", req.PassportNumber},
		{"passport_expiration", req.PassportExpiration},
		{"passport_country", req.PassportCountry},
		{"date_of_birth", req.DateOfBirth},
	}); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.Password(req.Password); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.Email(req.Email); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.Phone(req.PhoneNumber); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.PassportNumber(req.PassportNumber); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.BirthBeforeExpiration(req.DateOfBirth, req.PassportExpiration); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}

	dob, _ := time.Parse("2006-01-02", req.DateOfBirth)
	exp, _ := time.Parse("2006-01-02", req.PassportExpiration)
	cust := &model.Customer{
		Email:              req.Email,
		Name:               req.Name,
		BuildingNo:         optional(req.BuildingNo),
		Street:             optional(req.Street),
		City:               optional(req.City),
		State:              optional(req.State),
		PhoneNumber:        req.PhoneNumber,
		PassportNumber:     req.PassportNumber,
		PassportExpiration: exp,
		PassportCountry:    req.PassportCountry,
		DateOfBirth:        dob,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Customers.Create(ctx, cust, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "this user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	metrics.Registrations.WithLabelValues(utils.RoleCustomer).Inc()

	return h.issueTokens(c, ctx, utils.Identity{
		Email: req.Email, Role: utils.RoleCustomer, Name: req.Name,
	}, http.StatusCreated)
}

// RegisterStaff creates an airline staff account. The airline must
// already exist; username and email must both be free.
func (h *AuthHandler) RegisterStaff(c echo.Context) error {
	var req registerStaffReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.AirlineName = strings.TrimSpace(req.AirlineName)

	if ok, reason := validate.Required([][2]string{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"airline_name", req.AirlineName},
		{"date_of_birth", req.DateOfBirth},
	}); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.Password(req.Password); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	if ok, reason := validate.Email(req.Email); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format, use YYYY-MM-DD"})
	}

	st := &model.Staff{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AirlineName: req.AirlineName,
		DateOfBirth: dob,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Staff.Create(ctx, st, req.Password, h.Cfg.BcryptCost); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "this user already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		case repository.ErrConflict:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown airline"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	metrics.Registrations.WithLabelValues(utils.RoleStaff).Inc()

	return h.issueTokens(c, ctx, utils.Identity{
		Email: req.Email, Role: utils.RoleStaff,
		Name:    req.FirstName + " " + req.LastName,
		Airline: req.AirlineName, Username: req.Username,
	}, http.StatusCreated)
}

// Login verifies credentials against the union of customers and staff
// and returns a token pair carrying the role (and airline scope for
// staff). Wrong password and unknown user both come back 401 with the
// same message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var id utils.Identity
	cust, err := h.Customers.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		id = utils.Identity{Email: cust.Email, Role: utils.RoleCustomer, Name: cust.Name}
	case err == sql.ErrNoRows:
		st, err := h.Staff.GetByEmail(ctx, req.Email)
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !utils.VerifyPassword(st.PasswordHash, req.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		id = utils.Identity{
			Email: st.Email, Role: utils.RoleStaff,
			Name:    st.FirstName + " " + st.LastName,
			Airline: st.AirlineName, Username: st.Username,
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	metrics.Logins.WithLabelValues(id.Role).Inc()
	return h.issueTokens(c, ctx, id, http.StatusOK)
}

// Refresh validates a refresh token by hash, revokes it and issues a
// fresh pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	email, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	id, err := h.lookupIdentity(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return h.issueTokens(c, ctx, id, http.StatusOK)
}

// Logout revokes the presented refresh token; with none in the body it
// revokes every session of the authenticated account. Either way the
// session ends up fully anonymous.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
	}
	if err := h.Tokens.RevokeAllForEmail(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the identity claims of the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"email":    c.Get(middleware.CtxEmail),
		"role":     c.Get(middleware.CtxRole),
		"name":     c.Get(middleware.CtxName),
		"airline":  c.Get(middleware.CtxAirline),
		"username": c.Get(middleware.CtxUsername),
	})
}

// lookupIdentity rebuilds the identity claims for an email, checking
// customers first and staff second, same order as login.
func (h *AuthHandler) lookupIdentity(ctx context.Context, email string) (utils.Identity, error) {
	cust, err := h.Customers.GetByEmail(ctx, email)
	if err == nil {
		return utils.Identity{Email: cust.Email, Role: utils.RoleCustomer, Name: cust.Name}, nil
	}
	if err != sql.ErrNoRows {
		return utils.Identity{}, err
	}
	st, err := h.Staff.GetByEmail(ctx, email)
	if err != nil {
		return utils.Identity{}, err
	}
	return utils.Identity{
		Email: st.Email, Role: utils.RoleStaff,
		Name:    st.FirstName + " " + st.LastName,
		Airline: st.AirlineName, Username: st.Username,
	}, nil
}

// issueTokens signs an access token, stores a hashed refresh token and
// writes the standard auth response.
func (h *AuthHandler) issueTokens(c echo.Context, ctx context.Context, id utils.Identity, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	tok := model.RefreshToken{
		Email:     id.Email,
		TokenHash: utils.HashRefreshRaw(refresh.Raw),
		ExpiresAt: refresh.Exp,
	}
	if err := h.Tokens.StoreRefresh(ctx, tok); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		User:    userPart{Email: id.Email, Role: id.Role, Name: id.Name, Airline: id.Airline},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

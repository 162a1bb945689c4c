package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/validate"
)

type phoneReq struct {
	PhoneNumber string `json:"phone_number"`
}

// AddPhone handles POST /v1/staff/phones. Phones belong to the staff
// username from the session; any number of them, no duplicates.
func (h *StaffHandler) AddPhone(c echo.Context) error {
	username, _, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req phoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if ok, reason := validate.Phone(phone); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Staff.AddPhone(ctx, username, phone); err != nil {
		if err == repository.ErrPhoneExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already on file"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save phone failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"phone_number": phone})
}

// ListPhones handles GET /v1/staff/phones.
func (h *StaffHandler) ListPhones(c echo.Context) error {
	username, _, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	phones, err := h.Staff.ListPhones(ctx, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		out = append(out, p.PhoneNumber)
	}
	return c.JSON(http.StatusOK, echo.Map{"phones": out})
}

// DeletePhone handles DELETE /v1/staff/phones. Removing a number that
// is not on file is a 404, not a silent success.
func (h *StaffHandler) DeletePhone(c echo.Context) error {
	username, _, err := staffScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req phoneReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PhoneNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Staff.DeletePhone(ctx, username, strings.TrimSpace(req.PhoneNumber)); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "phone number not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete phone failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

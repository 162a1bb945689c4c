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

type ratingReq struct {
	AirlineName string `json:"airline_name"`
	FlightNo    string `json:"flight_no"`
	DepDatetime string `json:"dep_datetime"` // machine key
	Rating      uint8  `json:"rating"`
	Comment     string `json:"comment"`
}

// CreateRating handles POST /v1/customer/ratings. The customer must
// hold a ticket on the flight and the flight must have departed; both
// checks live in the repository transaction. One rating per flight per
// customer.
func (h *CustomerHandler) CreateRating(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.AirlineName = strings.TrimSpace(req.AirlineName)
	req.FlightNo = strings.TrimSpace(req.FlightNo)
	if req.AirlineName == "" || req.FlightNo == "" || strings.TrimSpace(req.DepDatetime) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight identity (airline_name, flight_no, dep_datetime) is required"})
	}
	dep, err := parseFlightKey(req.DepDatetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dep_datetime, use YYYY-MM-DD HH:MM:SS"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	rt := &model.FlightRating{
		AirlineName:   req.AirlineName,
		FlightNo:      req.FlightNo,
		DepDatetime:   dep,
		CustomerEmail: email,
		Rating:        req.Rating,
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		rt.Comment = &comment
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Ratings.Create(ctx, rt); err != nil {
		switch err {
		case repository.ErrNotEligible:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you can only rate flights you have flown"})
		case repository.ErrRatingExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already rated this flight"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save rating failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"rating_id": rt.ID})
}

// ListMyRatings handles GET /v1/customer/ratings.
func (h *CustomerHandler) ListMyRatings(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	ratings, err := h.Ratings.ListByCustomer(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ratings": ratings})
}

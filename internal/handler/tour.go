package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
)

// TourHandler serves the public catalogue endpoints and the admin-only
// tour management.
type TourHandler struct {
	Tours *repository.TourRepo
}

func NewTourHandler(tours *repository.TourRepo) *TourHandler {
	return &TourHandler{Tours: tours}
}

// List returns all tours ordered by start time.
func (h *TourHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tours, err := h.Tours.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(tours), echo.Map{"tours": tours})
}

// Get returns one tour.
func (h *TourHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tours.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "tour not found")
	}
	return success(c, http.StatusOK, echo.Map{"tour": t})
}

// Availability reports the remaining seats on a tour, derived from the
// reservation people counts at request time.
func (h *TourHandler) Availability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tours.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "tour not found")
	}
	reserved, err := h.Tours.ReservedCount(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return success(c, http.StatusOK, echo.Map{
		"tour_id":            t.ID,
		"max_capacity":       t.MaxCapacity,
		"reserved":           reserved,
		"available_capacity": model.AvailableCapacity(t.MaxCapacity, reserved),
	})
}

type tourReq struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RouteInfo   string    `json:"route_info"`
	BoatName    string    `json:"boat_name"`
	StartTime   time.Time `json:"start_time"`
	MaxCapacity int       `json:"max_capacity"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
}

// Create adds a tour. Admin only.
func (h *TourHandler) Create(c echo.Context) error {
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.RouteInfo == "" || req.StartTime.IsZero() {
		return fail(c, http.StatusBadRequest, "name, route_info and start_time are required")
	}
	if req.MaxCapacity <= 0 {
		return fail(c, http.StatusBadRequest, "max_capacity must be positive")
	}
	if req.PriceCents < 0 {
		return fail(c, http.StatusBadRequest, "price_cents must not be negative")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Tour{
		Name:        req.Name,
		Description: req.Description,
		RouteInfo:   req.RouteInfo,
		BoatName:    req.BoatName,
		StartTime:   req.StartTime.UTC(),
		MaxCapacity: req.MaxCapacity,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
	}
	id, err := h.Tours.Create(ctx, &t)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create tour failed")
	}
	t.ID = id
	return success(c, http.StatusCreated, echo.Map{"tour": t})
}

// Update patches tour fields. Admin only.
func (h *TourHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := model.Tour{
		Name:        req.Name,
		Description: req.Description,
		RouteInfo:   req.RouteInfo,
		BoatName:    req.BoatName,
		StartTime:   req.StartTime,
		MaxCapacity: req.MaxCapacity,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
	}
	if err := h.Tours.Update(ctx, id, patch); err != nil {
		return failFrom(c, err, "tour not found")
	}
	t, err := h.Tours.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "tour not found")
	}
	return success(c, http.StatusOK, echo.Map{"tour": t})
}

// Delete removes a tour. Admin only. Tours with reservations refuse to go.
func (h *TourHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tours.Delete(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "tour has reservations and cannot be deleted")
		}
		return fail(c, http.StatusInternalServerError, "delete tour failed")
	}
	return c.NoContent(http.StatusNoContent)
}

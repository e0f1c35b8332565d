package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/service"
)

// BookingHandler is a thin HTTP adapter over the booking lifecycle manager.
// All business rules (transition guards, payment intents, refunds,
// notifications) live in the service layer.
type BookingHandler struct {
	Manager *service.BookingManager
}

func NewBookingHandler(m *service.BookingManager) *BookingHandler {
	return &BookingHandler{Manager: m}
}

func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	b, err := h.Manager.Create(ctx, in)
	if err != nil {
		return failFrom(c, err, "booking not found")
	}
	return success(c, http.StatusCreated, echo.Map{"booking": b})
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Manager.Get(ctx, id)
	if err != nil {
		return failFrom(c, err, "booking not found")
	}
	return success(c, http.StatusOK, echo.Map{"booking": b})
}

func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	var p repository.BookingPatch
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Manager.Update(ctx, id, p)
	if err != nil {
		return failFrom(c, err, "booking not found")
	}
	return success(c, http.StatusOK, echo.Map{"booking": b})
}

func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Manager.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "delete booking failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Confirm moves a pending booking to confirmed. Repeated confirms and
// confirms of cancelled bookings come back 409.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	b, err := h.Manager.Confirm(ctx, id)
	if err != nil {
		return failFrom(c, err, "booking not found")
	}
	return success(c, http.StatusOK, echo.Map{"booking": b})
}

// Cancel moves a live booking to cancelled, refunding any advance first.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	b, err := h.Manager.Cancel(ctx, id)
	if err != nil {
		return failFrom(c, err, "booking not found")
	}
	return success(c, http.StatusOK, echo.Map{"booking": b})
}

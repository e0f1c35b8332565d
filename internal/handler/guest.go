package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/utils"
)

// GuestHandler manages guest records for agency and admin users. Identity
// numbers are encrypted before they reach the repository; client IP and MAC
// are stored as digests only.
type GuestHandler struct {
	Guests   *repository.GuestRepo
	Bookings *repository.BookingRepo
	Key      []byte
}

func NewGuestHandler(guests *repository.GuestRepo, bookings *repository.BookingRepo, key []byte) *GuestHandler {
	return &GuestHandler{Guests: guests, Bookings: bookings, Key: key}
}

type guestReq struct {
	FullName             string    `json:"full_name"`
	Nationality          string    `json:"nationality"`
	IdentityNumber       string    `json:"identity_number"`
	PhoneNumber          string    `json:"phone_number"`
	NumberOfGuests       int       `json:"number_of_guests"`
	AccommodationAddress string    `json:"accommodation_address"`
	TourDate             time.Time `json:"tour_date"`
	MACAddress           string    `json:"mac_address"`
}

func (h *GuestHandler) Create(c echo.Context) error {
	var req guestReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.FullName == "" || req.IdentityNumber == "" {
		return fail(c, http.StatusBadRequest, "full_name and identity_number are required")
	}
	if req.NumberOfGuests <= 0 {
		req.NumberOfGuests = 1
	}

	enc, err := utils.EncryptField(h.Key, req.IdentityNumber)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create guest failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g := model.Guest{
		FullName:             req.FullName,
		Nationality:          req.Nationality,
		IdentityNumber:       enc,
		PhoneNumber:          req.PhoneNumber,
		NumberOfGuests:       req.NumberOfGuests,
		AccommodationAddress: req.AccommodationAddress,
		TourDate:             req.TourDate,
		IPAddress:            utils.HashField(c.RealIP()),
		MACAddress:           utils.HashField(req.MACAddress),
	}
	id, err := h.Guests.Create(ctx, &g)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create guest failed")
	}
	g.ID = id
	return success(c, http.StatusCreated, echo.Map{"guest": g})
}

func (h *GuestHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid guest id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Guests.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "guest not found")
	}
	return success(c, http.StatusOK, echo.Map{"guest": g})
}

func (h *GuestHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	guests, err := h.Guests.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(guests), echo.Map{"guests": guests})
}

func (h *GuestHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid guest id")
	}
	var req guestReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	patch := model.Guest{
		FullName:             req.FullName,
		Nationality:          req.Nationality,
		PhoneNumber:          req.PhoneNumber,
		NumberOfGuests:       req.NumberOfGuests,
		AccommodationAddress: req.AccommodationAddress,
		TourDate:             req.TourDate,
	}
	if req.IdentityNumber != "" {
		enc, err := utils.EncryptField(h.Key, req.IdentityNumber)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "update guest failed")
		}
		patch.IdentityNumber = enc
	}
	if req.MACAddress != "" {
		patch.MACAddress = utils.HashField(req.MACAddress)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guests.Update(ctx, id, patch); err != nil {
		return failFrom(c, err, "guest not found")
	}
	g, err := h.Guests.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "guest not found")
	}
	return success(c, http.StatusOK, echo.Map{"guest": g})
}

func (h *GuestHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid guest id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guests.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "delete guest failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// GuestBookings lists a guest's bookings, optionally filtered by the
// ?status= query parameter.
func (h *GuestHandler) GuestBookings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid guest id")
	}
	status := c.QueryParam("status")
	if status != "" && !model.ValidBookingStatus(status) {
		return fail(c, http.StatusBadRequest, "unknown booking status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Guests.GetByID(ctx, id); err != nil {
		return failFrom(c, err, "guest not found")
	}
	bookings, err := h.Bookings.ListByGuest(ctx, id, status)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(bookings), echo.Map{"bookings": bookings})
}

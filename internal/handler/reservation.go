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

// ReservationHandler serves the seat requests signed-in users submit for
// tours. Identity number, IP and MAC are hashed before storage; the owner
// or staff (admin, agency) may read and modify a reservation.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Tours        *repository.TourRepo
}

func NewReservationHandler(reservations *repository.ReservationRepo, tours *repository.TourRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations, Tours: tours}
}

type reservationReq struct {
	TourID               uint64    `json:"tour_id"`
	Name                 string    `json:"name"`
	Nationality          string    `json:"nationality"`
	IdentityNumber       string    `json:"identity_number"`
	Phone                string    `json:"phone"`
	PeopleCount          int       `json:"people_count"`
	AccommodationAddress string    `json:"accommodation_address"`
	TourDate             time.Time `json:"tour_date"`
	MACAddress           string    `json:"mac_address"`
}

// Create submits a reservation for the authenticated user, refusing requests
// that exceed the tour's remaining capacity.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.TourID == 0 || req.Name == "" {
		return fail(c, http.StatusBadRequest, "tour_id and name are required")
	}
	if req.PeopleCount <= 0 {
		req.PeopleCount = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tours.GetByID(ctx, req.TourID)
	if err != nil {
		return failFrom(c, err, "tour not found")
	}
	reserved, err := h.Tours.ReservedCount(ctx, req.TourID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if req.PeopleCount > model.AvailableCapacity(t.MaxCapacity, reserved) {
		return fail(c, http.StatusConflict, "not enough capacity left on this tour")
	}

	rv := model.Reservation{
		UserID:               uid,
		TourID:               req.TourID,
		Name:                 req.Name,
		Nationality:          req.Nationality,
		IdentityNumber:       utils.HashField(req.IdentityNumber),
		Phone:                req.Phone,
		PeopleCount:          req.PeopleCount,
		AccommodationAddress: req.AccommodationAddress,
		TourDate:             req.TourDate,
		IPAddress:            utils.HashField(c.RealIP()),
		MACAddress:           utils.HashField(req.MACAddress),
	}
	id, err := h.Reservations.Create(ctx, &rv)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "create reservation failed")
	}
	rv.ID = id
	return success(c, http.StatusCreated, echo.Map{"reservation": rv})
}

// List returns every reservation. Staff only; routing enforces the roles.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reservations, err := h.Reservations.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(reservations), echo.Map{"reservations": reservations})
}

// MyReservations returns the authenticated user's own reservations.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reservations, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(reservations), echo.Map{"reservations": reservations})
}

func (h *ReservationHandler) Get(c echo.Context) error {
	rv, ok, resp := h.load(c)
	if !ok {
		return resp
	}
	return success(c, http.StatusOK, echo.Map{"reservation": rv})
}

func (h *ReservationHandler) Update(c echo.Context) error {
	rv, ok, resp := h.load(c)
	if !ok {
		return resp
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	patch := model.Reservation{
		TourID:               req.TourID,
		Name:                 req.Name,
		Nationality:          req.Nationality,
		Phone:                req.Phone,
		PeopleCount:          req.PeopleCount,
		AccommodationAddress: req.AccommodationAddress,
		TourDate:             req.TourDate,
	}
	if req.IdentityNumber != "" {
		patch.IdentityNumber = utils.HashField(req.IdentityNumber)
	}
	if req.MACAddress != "" {
		patch.MACAddress = utils.HashField(req.MACAddress)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Update(ctx, rv.ID, patch); err != nil {
		return failFrom(c, err, "reservation not found")
	}
	updated, err := h.Reservations.GetByID(ctx, rv.ID)
	if err != nil {
		return failFrom(c, err, "reservation not found")
	}
	return success(c, http.StatusOK, echo.Map{"reservation": updated})
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	rv, ok, resp := h.load(c)
	if !ok {
		return resp
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Delete(ctx, rv.ID); err != nil {
		return fail(c, http.StatusInternalServerError, "delete reservation failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// load fetches the reservation from the :id parameter and enforces that the
// caller is either its owner or staff. When ok is false the error response
// has already been rendered and must be returned as-is.
func (h *ReservationHandler) load(c echo.Context) (model.Reservation, bool, error) {
	id, ok := pathID(c)
	if !ok {
		return model.Reservation{}, false, fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	uid, ok := currentUserID(c)
	if !ok {
		return model.Reservation{}, false, fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, false, failFrom(c, err, "reservation not found")
	}
	role, _ := c.Get("role").(string)
	if rv.UserID != uid && role != model.RoleAdmin && role != model.RoleAgency {
		return model.Reservation{}, false, fail(c, http.StatusForbidden, "you do not have permission to access this reservation")
	}
	return rv, true, nil
}

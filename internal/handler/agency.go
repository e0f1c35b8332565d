package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
)

// AgencyHandler manages partner agency records. Admin only.
type AgencyHandler struct {
	Agencies *repository.AgencyRepo
}

func NewAgencyHandler(agencies *repository.AgencyRepo) *AgencyHandler {
	return &AgencyHandler{Agencies: agencies}
}

type agencyReq struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	PhoneNumber   string `json:"phone_number"`
	Email         string `json:"email"`
	TaxNumber     string `json:"tax_number"`
	Address       string `json:"address"`
}

func (h *AgencyHandler) Create(c echo.Context) error {
	var req agencyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.Agency{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		TaxNumber:     req.TaxNumber,
		Address:       req.Address,
	}
	id, err := h.Agencies.Create(ctx, &a)
	if err != nil {
		return failFrom(c, err, "agency not found")
	}
	a.ID = id
	return success(c, http.StatusCreated, echo.Map{"agency": a})
}

func (h *AgencyHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid agency id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Agencies.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "agency not found")
	}
	return success(c, http.StatusOK, echo.Map{"agency": a})
}

func (h *AgencyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agencies, err := h.Agencies.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return successList(c, len(agencies), echo.Map{"agencies": agencies})
}

func (h *AgencyHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid agency id")
	}
	var req agencyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := model.Agency{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		TaxNumber:     req.TaxNumber,
		Address:       req.Address,
	}
	if err := h.Agencies.Update(ctx, id, patch); err != nil {
		return failFrom(c, err, "agency not found")
	}
	a, err := h.Agencies.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "agency not found")
	}
	return success(c, http.StatusOK, echo.Map{"agency": a})
}

func (h *AgencyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid agency id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Agencies.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "delete agency failed")
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
)

// UserHandler exposes account administration. Admin only; password changes
// go through the auth endpoints, never here.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	}
	return successList(c, len(out), echo.Map{"users": out})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "user not found")
	}
	return success(c, http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}

type userPatchReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Update patches profile fields and, when a role is supplied, reassigns it.
// Roles are normalized to lowercase before validation.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req userPatchReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, id, req.Name, req.Phone, req.Email); err != nil {
		return failFrom(c, err, "user not found")
	}
	if req.Role != "" {
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if !model.ValidRole(role) {
			return fail(c, http.StatusBadRequest, "unknown role")
		}
		if err := h.Users.UpdateRole(ctx, id, role); err != nil {
			return failFrom(c, err, "user not found")
		}
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return failFrom(c, err, "user not found")
	}
	return success(c, http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "delete user failed")
	}
	return c.NoContent(http.StatusNoContent)
}

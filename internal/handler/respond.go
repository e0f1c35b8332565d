// Package handler implements the HTTP endpoints. Every response uses the
// envelope {status, data?, message?}; list responses add a results count.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/service"
)

func success(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{"status": "success", "data": data})
}

func successList(c echo.Context, results int, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "results": results, "data": data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": "error", "message": msg})
}

// failFrom maps sentinel errors from the repository and service layers to
// HTTP responses. Anything unrecognised is a generic 500 so store internals
// never leak to clients.
func failFrom(c echo.Context, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusConflict, "email already exists")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "operation conflicts with existing records")
	case errors.Is(err, service.ErrInvalidTransition):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidation):
		return fail(c, http.StatusBadRequest, err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "operation failed")
	}
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// currentUserID reads the authenticated user id stored by the Protect
// middleware.
func currentUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("user_id").(uint64)
	return id, ok && id != 0
}

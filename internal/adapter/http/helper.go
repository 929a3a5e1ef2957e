package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tuka-portal/internal/adapter/middleware"
	"tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/user"
	"tuka-portal/internal/infrastructure/storage"
)

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

// Map domain errors → HTTP codes. Anything unrecognised is logged and
// reported generically.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loan.ErrInvalidForm),
		errors.Is(err, loan.ErrInvalidType),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, loan.ErrMissingDocument),
		errors.Is(err, user.ErrInvalidRole):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: loan.ErrNotFound.Error()})
	case errors.Is(err, loan.ErrNotOwner):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: loan.ErrNotOwner.Error()})
	case errors.Is(err, loan.ErrNotEditable):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: loan.ErrNotEditable.Error()})
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidPath):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: storage.ErrNotFound.Error()})
	case errors.Is(err, user.ErrEmailTaken), errors.Is(err, user.ErrSelfDeactivate):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: user.ErrInvalidCredentials.Error()})
	case errors.Is(err, user.ErrInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: user.ErrInactive.Error()})
	case errors.Is(err, user.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: user.ErrNotFound.Error()})
	}
	slog.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not process request"})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id path param"})
}

// sessionUser is set by the session middleware; routes behind RequireLogin
// always have it.
func sessionUser(c echo.Context) uint64 {
	id, _ := middleware.UserID(c)
	return id
}

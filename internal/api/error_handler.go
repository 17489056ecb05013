package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Details
// is only populated on server errors and carries the underlying message.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking raw exceptions.
//   - Renders a consistent JSON envelope: {"error": "...", "details": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404/405 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: "missing or invalid required fields"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorResponse{Error: "email already registered"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user id already in use"}
	case errors.Is(err, domain.ErrApprovalInProgress):
		return http.StatusConflict, errorResponse{Error: "approval already in progress"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return http.StatusNotFound, errorResponse{Error: "registration not found"}
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, errorResponse{Error: "project not found"}
	case errors.Is(err, domain.ErrProjectExists):
		return http.StatusConflict, errorResponse{Error: "project already exists"}
	}

	// Unexpected error: log the real cause, return a generic message with
	// the detail string the clients expect.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal server error",
		Details: err.Error(),
	}
}

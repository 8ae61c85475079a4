package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors and hides their text unless exposeInternal is set.
//   - Renders {"success": false, "message": ..., "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, exposeInternal, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, exposeInternal bool, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, unknown routes, rate limiting, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		return http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, errorResponse{Message: "username already exists"}
	case errors.Is(err, domain.ErrAlreadyFavorited):
		return http.StatusConflict, errorResponse{Message: "movie is already in favorites"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Message: "access token required"}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusForbidden, errorResponse{Message: "token expired"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, errorResponse{Message: "invalid token"}
	case errors.Is(err, domain.ErrFavoriteNotFound):
		return http.StatusNotFound, errorResponse{Message: "favorite not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "user not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	msg := "internal server error"
	if exposeInternal {
		msg = err.Error()
	}
	return http.StatusInternalServerError, errorResponse{Message: msg}
}

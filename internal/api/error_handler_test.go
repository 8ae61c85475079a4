package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

func render(t *testing.T, err error, method string, exposeInternal bool) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/favorites", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), exposeInternal)(err, c)

	var body errorResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrDuplicateUsername, http.StatusConflict, "username already exists"},
		{domain.ErrAlreadyFavorited, http.StatusConflict, "movie is already in favorites"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "access token required"},
		{domain.ErrTokenExpired, http.StatusForbidden, "token expired"},
		{domain.ErrTokenInvalid, http.StatusForbidden, "invalid token"},
		{domain.ErrUnauthorized, http.StatusForbidden, "invalid token"},
		{domain.ErrFavoriteNotFound, http.StatusNotFound, "favorite not found"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{fmt.Errorf("insert favorite: %w", domain.ErrAlreadyFavorited), http.StatusConflict, "movie is already in favorites"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec, body := render(t, tt.err, http.MethodGet, false)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if body.Success || body.Message != tt.message || len(body.Errors) != 0 {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_FieldErrors(t *testing.T) {
	var v validation.Collector
	v.Check("username", validation.ErrUsernameLength)
	v.Check("password", validation.ErrPasswordCommon)

	rec, body := render(t, v.Err(), http.MethodPost, false)

	if rec.Code != http.StatusBadRequest || body.Message != "validation failed" {
		t.Fatalf("unexpected response %d: %+v", rec.Code, body)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("expected two field errors, got %+v", body.Errors)
	}
	want := validation.FieldError{Field: "username", Message: validation.ErrUsernameLength.Error()}
	if body.Errors[0] != want || body.Errors[1].Field != "password" {
		t.Fatalf("unexpected field errors: %+v", body.Errors)
	}
}

func TestHTTPErrorHandler_BareValidationError(t *testing.T) {
	err := fmt.Errorf("%w: bad payload", domain.ErrValidation)

	rec, body := render(t, err, http.MethodPost, false)

	if rec.Code != http.StatusBadRequest || body.Message != err.Error() {
		t.Fatalf("unexpected response %d: %+v", rec.Code, body)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.MethodGet, false)

	if rec.Code != http.StatusTooManyRequests || body.Message != "slow down" {
		t.Fatalf("unexpected response %d: %+v", rec.Code, body)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	cause := errors.New("connection reset by peer")

	t.Run("hidden", func(t *testing.T) {
		rec, body := render(t, cause, http.MethodGet, false)
		if rec.Code != http.StatusInternalServerError || body.Message != "internal server error" {
			t.Fatalf("unexpected response %d: %+v", rec.Code, body)
		}
	})

	t.Run("exposed in development", func(t *testing.T) {
		rec, body := render(t, cause, http.MethodGet, true)
		if rec.Code != http.StatusInternalServerError || body.Message != cause.Error() {
			t.Fatalf("unexpected response %d: %+v", rec.Code, body)
		}
	})
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	rec, _ := render(t, domain.ErrFavoriteNotFound, http.MethodHead, false)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected a bare 404, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := c.String(http.StatusOK, "done"); err != nil {
		t.Fatalf("write: %v", err)
	}

	NewHTTPErrorHandler(zerolog.Nop(), false)(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}

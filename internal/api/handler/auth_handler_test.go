package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, username, password string) (domain.PublicUser, error)
	loginFn          func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	authenticateFn   func(ctx context.Context, token string) (domain.Claims, error)
	changePasswordFn func(ctx context.Context, userID int64, current, next string) error
	profileFn        func(ctx context.Context, userID int64) (domain.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (domain.PublicUser, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (domain.Claims, error) {
	return s.authenticateFn(ctx, token)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubAuthService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	return s.profileFn(ctx, userID)
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (r *recordingSink) Enqueue(event domain.SecurityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// authedContext mimics what the Auth middleware leaves behind.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", int64(7))
	c.Set("username", "alice123")
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (domain.PublicUser, error) {
			if username != "alice123" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return domain.PublicUser{ID: 1, Username: username}, nil
		},
	}
	handler := NewAuthHandler(stub, sink)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"username":"alice123","password":"secret1"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success=true, got %v", resp["success"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice123" || user["id"] != float64(1) {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}

	if len(sink.events) != 1 || sink.events[0].Action != "USER_REGISTER:alice123" || !sink.events[0].Success {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (domain.PublicUser, error) {
			return domain.PublicUser{}, domain.ErrDuplicateUsername
		},
	}
	handler := NewAuthHandler(stub, sink)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"username":"bob_1","password":"secret1"}`), rec)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Success {
		t.Fatalf("expected one failed audit event, got %+v", sink.events)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (domain.PublicUser, error) {
			t.Fatalf("should not be called")
			return domain.PublicUser{}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", "not-json"), rec)

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice123" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				User:      domain.PublicUser{ID: 1, Username: "alice123"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"username":"alice123","password":"secret1"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice123" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, sink)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"username":"alice123","password":"wrong"}`), rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Action != "LOGIN_ATTEMPT:alice123" || sink.events[0].Success {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"username":""}`), rec)

	err := handler.Login(c)
	var fields validation.Errors
	if !errors.As(err, &fields) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if len(fields) != 2 || fields[0].Field != "username" || fields[1].Field != "password" {
		t.Fatalf("unexpected field errors: %+v", fields)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", "{"), rec)

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/logout", nil), rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["success"] != true {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, userID int64) (domain.Profile, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id %d", userID)
			}
			return domain.Profile{ID: 7, Username: "alice123", FavoritesCount: 3}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/profile", nil), rec)

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	user, ok := resp["user"].(map[string]any)
	if !ok || user["favorites_count"] != float64(3) {
		t.Fatalf("unexpected profile payload: %+v", resp)
	}
}

func TestAuthHandler_Profile_WithoutClaims(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), rec)

	if err := handler.Profile(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/verify-token", nil), rec)

	if err := handler.VerifyToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["valid"] != true {
		t.Fatalf("expected valid=true, got %v", resp["valid"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != float64(7) || user["username"] != "alice123" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID int64, current, next string) error {
			if userID != 7 || current != "secret1" || next != "secret2" {
				t.Fatalf("unexpected args: %d %s %s", userID, current, next)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub, sink)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/password", `{"current_password":"secret1","new_password":"secret2"}`)
	c := authedContext(e, req, rec)

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sink.events) != 1 || sink.events[0].Action != domain.ActionPasswordChange {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
	if sink.events[0].UserID == nil || *sink.events[0].UserID != 7 {
		t.Fatalf("expected audit user id 7, got %v", sink.events[0].UserID)
	}
}

func TestAuthHandler_ChangePassword_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID int64, current, next string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPut, "/password", `{"current_password":"secret1"}`), rec)

	err := handler.ChangePassword(c)
	var fields validation.Errors
	if !errors.As(err, &fields) || len(fields) != 1 || fields[0].Field != "new_password" {
		t.Fatalf("expected new_password field error, got %v", err)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/api/metrics"
	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditSink
}

// NewAuthHandler wires the auth routes. audit may be nil.
func NewAuthHandler(authService ports.AuthService, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		h.record(c, domain.ActionRegister+":"+req.Username, nil, err)
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.record(c, domain.ActionRegister+":"+user.Username, &user.ID, nil)

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: "user registered successfully",
		User:    user,
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		h.record(c, domain.ActionLoginAttempt+":"+req.Username, nil, err)
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(c, domain.ActionLoginAttempt+":"+result.User.Username, &result.User.ID, nil)

	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// Logout acknowledges the client dropping its token. Tokens are stateless and
// stay valid until they expire.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "logged out successfully",
	})
}

// Profile returns the caller's account summary.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		Message: "profile of " + profile.Username,
		User:    profile,
	})
}

// VerifyToken reports that the presented token is valid.
//
// @Summary      Verify the session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyTokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /verify-token [get]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyTokenResponse{
		Success: true,
		Valid:   true,
		User:    domain.PublicUser{ID: claims.UserID, Username: claims.Username},
	})
}

// ChangePassword replaces the caller's password after checking the current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.authService.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	h.record(c, domain.ActionPasswordChange, &claims.UserID, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "password updated successfully",
	})
}

func (h *AuthHandler) record(c echo.Context, action string, userID *int64, err error) {
	if h.audit != nil {
		h.audit.Enqueue(securityEvent(c, action, userID, err))
	}
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "conflict"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	default:
		return "error"
	}
}

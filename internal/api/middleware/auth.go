package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/api/metrics"
	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

// Auth validates the bearer token and injects the claims into the context
// under "user_id" and "username". A missing token is domain.ErrUnauthenticated;
// a rejected one is whatever the auth service reported (expired or invalid).
// Every rejection is sent to audit, which may be nil.
func Auth(authService ports.AuthService, audit ports.AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				reject(c, audit, "missing", domain.ErrUnauthenticated)
				return domain.ErrUnauthenticated
			}

			claims, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				reject(c, audit, reason, err)
				return err
			}

			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)

			return next(c)
		}
	}
}

// bearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c echo.Context, audit ports.AuditSink, reason string, err error) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	if audit == nil {
		return
	}
	audit.Enqueue(domain.SecurityEvent{
		Action:       domain.ActionAuthError,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		Success:      false,
		ErrorMessage: err.Error(),
	})
}

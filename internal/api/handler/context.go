package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// ctxClaims reads the claims injected by the Auth middleware. A handler
// mounted without it fails closed with ErrUnauthenticated.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	userID, _ := c.Get("user_id").(int64)
	username, _ := c.Get("username").(string)
	if userID <= 0 || username == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return domain.Claims{UserID: userID, Username: username}, nil
}

// securityEvent builds an audit record carrying the caller's address.
func securityEvent(c echo.Context, action string, userID *int64, err error) domain.SecurityEvent {
	event := domain.SecurityEvent{
		UserID:    userID,
		Action:    action,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Success:   err == nil,
	}
	if event.UserAgent == "" {
		event.UserAgent = "unknown"
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	return event
}

package domain

import "time"

// Audit actions recorded in the security log.
const (
	ActionLoginAttempt   = "LOGIN_ATTEMPT"
	ActionRegister       = "USER_REGISTER"
	ActionAddFavorite    = "ADD_FAVORITE"
	ActionRemoveFavorite = "REMOVE_FAVORITE"
	ActionSearch         = "SEARCH"
	ActionAuthError      = "AUTH_ERROR"
	ActionPasswordChange = "PASSWORD_CHANGE"
)

// SecurityEvent is one row of the security audit trail.
type SecurityEvent struct {
	ID           int64
	UserID       *int64 // optional
	Action       string
	IPAddress    string
	UserAgent    string
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}

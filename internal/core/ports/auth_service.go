package ports

import (
	"context"
	"time"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// PasswordHasher performs one-way salted hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks session tokens. Failures are domain.ErrTokenExpired or
// domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}

// TokenService is both ends of the session token lifecycle.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.PublicUser
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (domain.PublicUser, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (domain.Claims, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	Profile(ctx context.Context, userID int64) (domain.Profile, error)
}

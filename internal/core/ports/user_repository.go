package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsername is an exact, case-sensitive lookup. A missing user is
	// reported as found == false with a nil error.
	FindByUsername(ctx context.Context, username string) (user domain.User, found bool, err error)
	FindByID(ctx context.Context, id int64) (user domain.User, found bool, err error)
	// Insert atomically creates a user and returns domain.ErrDuplicateUsername
	// when the username is taken.
	Insert(ctx context.Context, username, passwordHash string) (domain.User, error)
	// UpdatePassword reports false when no user has the given id.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) (bool, error)
}

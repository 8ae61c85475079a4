package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// FavoriteRepository persists (user, movie) associations. The (user, movie)
// pair is unique; the store enforces it.
type FavoriteRepository interface {
	// Insert returns domain.ErrAlreadyFavorited when the pair exists and
	// domain.ErrUserNotFound when the user does not.
	Insert(ctx context.Context, userID int64, movie domain.FavoriteMovie) (domain.Favorite, error)
	// ListByUser returns the user's favorites, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
	Get(ctx context.Context, userID, movieID int64) (fav domain.Favorite, found bool, err error)
	// Remove deletes by external movie id and returns the number of rows
	// removed (0 or 1).
	Remove(ctx context.Context, userID, movieID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

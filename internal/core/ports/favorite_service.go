package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// AddFavoriteInput carries the raw, untrusted favorite fields. The service
// validates and normalizes them.
type AddFavoriteInput struct {
	MovieID   string
	Title     string
	PosterURL string
}

// FavoriteService defines the favorites use cases for an authenticated user.
type FavoriteService interface {
	Add(ctx context.Context, userID int64, input AddFavoriteInput) (domain.Favorite, error)
	List(ctx context.Context, userID int64) ([]domain.Favorite, error)
	Get(ctx context.Context, userID int64, rawMovieID string) (domain.Favorite, error)
	// Remove returns domain.ErrFavoriteNotFound when nothing was removed.
	Remove(ctx context.Context, userID int64, rawMovieID string) (int64, error)
}

package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// MovieRepository reads the local catalog.
type MovieRepository interface {
	// List returns every movie ordered by year, most recent first.
	List(ctx context.Context) ([]domain.Movie, error)
	// SearchByTitle matches titles case-insensitively.
	SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error)
}

package ports

import (
	"context"
	"time"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// ResponseCache is a byte-oriented TTL cache.
type ResponseCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MovieService exposes the local catalog.
type MovieService interface {
	List(ctx context.Context) ([]domain.Movie, error)
	Search(ctx context.Context, rawQuery string) (query string, movies []domain.Movie, err error)
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

const (
	movieListCacheKey = "movies:all"
	searchResultLimit = 50
)

// MovieService reads the local catalog. The full listing is read-through
// cached when a cache is configured; a failing cache is bypassed.
type MovieService struct {
	repo     ports.MovieRepository
	cache    ports.ResponseCache // optional
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewMovieService(repo ports.MovieRepository, cache ports.ResponseCache, cacheTTL time.Duration, log zerolog.Logger) *MovieService {
	return &MovieService{repo: repo, cache: cache, cacheTTL: cacheTTL, log: log}
}

func (s *MovieService) List(ctx context.Context) ([]domain.Movie, error) {
	if movies, ok := s.cached(ctx); ok {
		return movies, nil
	}

	movies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []domain.Movie{}
	}

	s.store(ctx, movies)
	return movies, nil
}

func (s *MovieService) Search(ctx context.Context, rawQuery string) (string, []domain.Movie, error) {
	query, err := validation.SearchQuery(rawQuery)
	if err != nil {
		return "", nil, validation.Field("q", err)
	}

	// Titles are stored as plain text, so match on the trimmed input rather
	// than the escaped form echoed back to the client.
	movies, err := s.repo.SearchByTitle(ctx, strings.TrimSpace(rawQuery), searchResultLimit)
	if err != nil {
		return "", nil, err
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return query, movies, nil
}

func (s *MovieService) cached(ctx context.Context) ([]domain.Movie, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, movieListCacheKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("movie cache read failed, falling back to store")
		return nil, false
	}
	if !found {
		return nil, false
	}
	var movies []domain.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		s.log.Warn().Err(err).Msg("discarding undecodable movie cache entry")
		return nil, false
	}
	return movies, true
}

func (s *MovieService) store(ctx context.Context, movies []domain.Movie) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(movies)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode movie cache entry")
		return
	}
	if err := s.cache.Set(ctx, movieListCacheKey, raw, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("movie cache write failed")
	}
}

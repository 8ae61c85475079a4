package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

type stubMovieRepo struct {
	movies    []domain.Movie
	listCalls int
	lastQuery string
	err       error
}

func (r *stubMovieRepo) List(context.Context) ([]domain.Movie, error) {
	r.listCalls++
	return r.movies, r.err
}

func (r *stubMovieRepo) SearchByTitle(_ context.Context, query string, _ int) ([]domain.Movie, error) {
	r.lastQuery = query
	var out []domain.Movie
	for _, m := range r.movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			out = append(out, m)
		}
	}
	return out, r.err
}

type stubCache struct {
	data   map[string][]byte
	getErr error
	sets   int
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = value
	c.sets++
	return nil
}

func sampleMovies() []domain.Movie {
	return []domain.Movie{
		{ID: 2, TMDBID: 603692, Title: "John Wick: Chapter 4", Year: 2023},
		{ID: 1, TMDBID: 603, Title: "The Matrix", Year: 1999},
	}
}

func TestMovieService_List_ReadThroughCache(t *testing.T) {
	repo := &stubMovieRepo{movies: sampleMovies()}
	cache := &stubCache{}
	svc := NewMovieService(repo, cache, time.Minute, zerolog.Nop())

	first, err := svc.List(context.Background())
	if err != nil || len(first) != 2 {
		t.Fatalf("unexpected list: %+v (%v)", first, err)
	}
	second, err := svc.List(context.Background())
	if err != nil || len(second) != 2 {
		t.Fatalf("unexpected cached list: %+v (%v)", second, err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one store call, got %d", repo.listCalls)
	}
	if second[0].Title != "John Wick: Chapter 4" {
		t.Fatalf("cache lost ordering: %+v", second)
	}
}

func TestMovieService_List_CacheFailureFallsBack(t *testing.T) {
	repo := &stubMovieRepo{movies: sampleMovies()}
	svc := NewMovieService(repo, &stubCache{getErr: errors.New("redis down")}, time.Minute, zerolog.Nop())

	movies, err := svc.List(context.Background())
	if err != nil || len(movies) != 2 {
		t.Fatalf("expected fallback to store, got %+v (%v)", movies, err)
	}
}

func TestMovieService_List_NoCache(t *testing.T) {
	repo := &stubMovieRepo{}
	svc := NewMovieService(repo, nil, 0, zerolog.Nop())

	movies, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movies == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}

func TestMovieService_Search(t *testing.T) {
	repo := &stubMovieRepo{movies: sampleMovies()}
	svc := NewMovieService(repo, nil, 0, zerolog.Nop())

	query, movies, err := svc.Search(context.Background(), "  matrix ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if query != "matrix" || repo.lastQuery != "matrix" {
		t.Fatalf("unexpected query %q / %q", query, repo.lastQuery)
	}
	if len(movies) != 1 || movies[0].TMDBID != 603 {
		t.Fatalf("unexpected results: %+v", movies)
	}

	if _, _, err := svc.Search(context.Background(), "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

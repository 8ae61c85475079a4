package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

type FavoriteService struct {
	repo ports.FavoriteRepository
	log  zerolog.Logger
}

func NewFavoriteService(repo ports.FavoriteRepository, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, log: log}
}

// Add validates the three fields together and inserts. Uniqueness is left to
// the store: a second add for the same movie yields ErrAlreadyFavorited.
func (s *FavoriteService) Add(ctx context.Context, userID int64, input ports.AddFavoriteInput) (domain.Favorite, error) {
	var v validation.Collector
	movieID, err := validation.MovieID(input.MovieID)
	v.Check("movie_tmdb_id", err)
	title, err := validation.MovieTitle(input.Title)
	v.Check("title", err)
	posterURL, err := validation.PosterURL(input.PosterURL)
	v.Check("poster_url", err)
	if err := v.Err(); err != nil {
		return domain.Favorite{}, err
	}

	fav, err := s.repo.Insert(ctx, userID, domain.FavoriteMovie{
		MovieID:   movieID,
		Title:     title,
		PosterURL: posterURL,
	})
	if err != nil {
		return domain.Favorite{}, err
	}

	s.log.Debug().Int64("user_id", userID).Int64("movie_id", movieID).Msg("favorite added")
	return fav, nil
}

func (s *FavoriteService) List(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	return favs, nil
}

func (s *FavoriteService) Get(ctx context.Context, userID int64, rawMovieID string) (domain.Favorite, error) {
	movieID, err := validation.MovieID(rawMovieID)
	if err != nil {
		return domain.Favorite{}, validation.Field("movieId", err)
	}

	fav, found, err := s.repo.Get(ctx, userID, movieID)
	if err != nil {
		return domain.Favorite{}, err
	}
	if !found {
		return domain.Favorite{}, domain.ErrFavoriteNotFound
	}
	return fav, nil
}

// Remove is keyed by the external movie id, never by the row id.
func (s *FavoriteService) Remove(ctx context.Context, userID int64, rawMovieID string) (int64, error) {
	movieID, err := validation.MovieID(rawMovieID)
	if err != nil {
		return 0, validation.Field("movieId", err)
	}

	removed, err := s.repo.Remove(ctx, userID, movieID)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, domain.ErrFavoriteNotFound
	}

	s.log.Debug().Int64("user_id", userID).Int64("movie_id", movieID).Msg("favorite removed")
	return removed, nil
}

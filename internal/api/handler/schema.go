package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

// errorResponse documents the envelope rendered by the API error handler on
// every 4xx/5xx response.
type errorResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=1024"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=1024"`
	NewPassword     string `json:"new_password"     validate:"required,max=1024"`
}

type registerResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

type loginResponse struct {
	Success   bool              `json:"success"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      domain.PublicUser `json:"user"`
}

type profileResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    domain.Profile `json:"user"`
}

type verifyTokenResponse struct {
	Success bool              `json:"success"`
	Valid   bool              `json:"valid"`
	User    domain.PublicUser `json:"user"`
}

// --- Favorites ---

// addFavoriteRequest accepts movie_tmdb_id as a JSON number or a numeric
// string; anything else is rejected by the movie id rule.
type addFavoriteRequest struct {
	MovieTMDBID any    `json:"movie_tmdb_id" swaggertype:"integer"`
	Title       string `json:"title"`
	PosterURL   string `json:"poster_url,omitempty"`
}

// favoriteResponse keeps the name/poster_path aliases older clients read.
// ID is the external movie id, not the row id.
type favoriteResponse struct {
	ID          int64     `json:"id"`
	MovieTMDBID int64     `json:"movie_tmdb_id"`
	Title       string    `json:"title"`
	Name        string    `json:"name"`
	PosterURL   *string   `json:"poster_url"`
	PosterPath  *string   `json:"poster_path"`
	CreatedAt   time.Time `json:"created_at"`
}

type favoriteListResponse struct {
	Success bool               `json:"success"`
	Data    []favoriteResponse `json:"data"`
}

type favoriteDetailResponse struct {
	Success bool             `json:"success"`
	Data    favoriteResponse `json:"data"`
}

// --- Movies ---

type movieListResponse struct {
	Success bool           `json:"success"`
	Data    []domain.Movie `json:"data"`
}

type movieSearchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Data    []domain.Movie `json:"data"`
}

// --- Mappers ---

func toFavoriteResponse(f domain.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:          f.MovieID,
		MovieTMDBID: f.MovieID,
		Title:       f.Title,
		Name:        f.Title,
		PosterURL:   f.PosterURL,
		PosterPath:  f.PosterURL,
		CreatedAt:   f.CreatedAt,
	}
}

func toFavoriteResponses(favs []domain.Favorite) []favoriteResponse {
	out := make([]favoriteResponse, 0, len(favs))
	for _, f := range favs {
		out = append(out, toFavoriteResponse(f))
	}
	return out
}

// rawMovieID renders the decoded movie_tmdb_id back to text for the movie id
// rule. JSON numbers arrive as float64.
func rawMovieID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}

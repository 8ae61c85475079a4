package domain

import "time"

// Movie is an entry of the local catalog.
type Movie struct {
	ID          int64     `json:"id"`
	TMDBID      int64     `json:"tmdb_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	PosterPath  string    `json:"poster_path,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Year        int       `json:"year,omitempty"`
	GenreIDs    []int64   `json:"genre_ids"`
	VoteAverage float64   `json:"vote_average"`
	VoteCount   int64     `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

package domain

import "time"

// FavoriteMovie is the validated payload for a new favorite.
type FavoriteMovie struct {
	MovieID   int64
	Title     string
	PosterURL *string
}

// Favorite associates a user with an external catalog movie. At most one
// favorite exists per (UserID, MovieID).
type Favorite struct {
	ID        int64
	UserID    int64
	MovieID   int64
	Title     string
	PosterURL *string
	CreatedAt time.Time
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Insert relies on UNIQUE (user_id, movie_tmdb_id); there is no
// check-then-insert.
func (r *FavoriteRepository) Insert(ctx context.Context, userID int64, m domain.FavoriteMovie) (domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	fav := domain.Favorite{
		UserID:    userID,
		MovieID:   m.MovieID,
		Title:     m.Title,
		PosterURL: m.PosterURL,
		CreatedAt: now,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, movie_tmdb_id, title, poster_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		userID, m.MovieID, m.Title, nullString(m.PosterURL), formatTime(now),
	).Scan(&fav.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Favorite{}, domain.ErrAlreadyFavorited
		case isForeignKeyViolation(err):
			return domain.Favorite{}, domain.ErrUserNotFound
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	return fav, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, movie_tmdb_id, title, poster_url, created_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	favs := []domain.Favorite{}
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favs, nil
}

func (r *FavoriteRepository) Get(ctx context.Context, userID, movieID int64) (domain.Favorite, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, movie_tmdb_id, title, poster_url, created_at
		FROM favorites
		WHERE user_id = ? AND movie_tmdb_id = ?`, userID, movieID)
	fav, err := scanFavorite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Favorite{}, false, nil
		}
		return domain.Favorite{}, false, err
	}
	return fav, true, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, movieID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = ? AND movie_tmdb_id = ?`, userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete favorite affected rows: %w", err)
	}
	return n, nil
}

func (r *FavoriteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner) (domain.Favorite, error) {
	var (
		fav       domain.Favorite
		posterURL sql.NullString
		created   string
	)
	if err := row.Scan(&fav.ID, &fav.UserID, &fav.MovieID, &fav.Title, &posterURL, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Favorite{}, err
		}
		return domain.Favorite{}, fmt.Errorf("scan favorite: %w", err)
	}
	if posterURL.Valid {
		s := posterURL.String
		fav.PosterURL = &s
	}
	t, err := parseTime(created)
	if err != nil {
		return domain.Favorite{}, err
	}
	fav.CreatedAt = t
	return fav, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)

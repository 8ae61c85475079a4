package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

// FavoriteRepository provides PostgreSQL-backed persistence for favorites.
type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

func (r *FavoriteRepository) Insert(ctx context.Context, userID int64, m domain.FavoriteMovie) (domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fav := domain.Favorite{UserID: userID, MovieID: m.MovieID, Title: m.Title, PosterURL: m.PosterURL}
	err := r.pool.QueryRow(ctx, `
        INSERT INTO favorites (user_id, movie_tmdb_id, title, poster_url)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, userID, m.MovieID, m.Title, m.PosterURL).Scan(&fav.ID, &fav.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return domain.Favorite{}, domain.ErrAlreadyFavorited
		case codeForeignKeyViolation:
			return domain.Favorite{}, domain.ErrUserNotFound
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	fav.CreatedAt = fav.CreatedAt.UTC()
	return fav, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
        SELECT id, user_id, movie_tmdb_id, title, poster_url, created_at
        FROM favorites
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `, userID)
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

	fav, err := scanFavorite(r.pool.QueryRow(ctx, `
        SELECT id, user_id, movie_tmdb_id, title, poster_url, created_at
        FROM favorites
        WHERE user_id = $1 AND movie_tmdb_id = $2
    `, userID, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Favorite{}, false, nil
		}
		return domain.Favorite{}, false, err
	}
	return fav, true, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, movieID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
        DELETE FROM favorites
        WHERE user_id = $1 AND movie_tmdb_id = $2
    `, userID, movieID)
	if err != nil {
		return 0, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *FavoriteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

func scanFavorite(row pgx.Row) (domain.Favorite, error) {
	var fav domain.Favorite
	if err := row.Scan(&fav.ID, &fav.UserID, &fav.MovieID, &fav.Title, &fav.PosterURL, &fav.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Favorite{}, err
		}
		return domain.Favorite{}, fmt.Errorf("scan favorite: %w", err)
	}
	fav.CreatedAt = fav.CreatedAt.UTC()
	return fav, nil
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)

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

// UserRepository provides PostgreSQL-backed persistence for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return r.findOne(ctx, `
        SELECT id, username, password_hash, created_at, updated_at
        FROM users
        WHERE username = $1
    `, username)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, bool, error) {
	return r.findOne(ctx, `
        SELECT id, username, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (domain.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, true, nil
}

func (r *UserRepository) Insert(ctx context.Context, username, passwordHash string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u := domain.User{Username: username, PasswordHash: passwordHash}
	err := r.pool.QueryRow(ctx, `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at
    `, username, passwordHash).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return domain.User{}, domain.ErrDuplicateUsername
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = now()
        WHERE id = $1
    `, userID, passwordHash)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)

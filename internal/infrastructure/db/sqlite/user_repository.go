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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return r.findOne(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = ?`, username)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, bool, error) {
	return r.findOne(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?`, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (domain.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		u                domain.User
		created, updated string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("select user: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return domain.User{}, false, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

func (r *UserRepository) Insert(ctx context.Context, username, passwordHash string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	u := domain.User{Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		username, passwordHash, formatTime(now), formatTime(now),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrDuplicateUsername
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, updated_at = ?
		WHERE id = ?`,
		passwordHash, formatTime(time.Now()), userID,
	)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update password affected rows: %w", err)
	}
	return n > 0, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)

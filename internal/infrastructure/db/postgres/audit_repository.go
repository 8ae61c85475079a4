package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e domain.SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
        INSERT INTO security_logs (user_id, action, ip_address, user_agent, success, error_message, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, e.UserID, e.Action, e.IPAddress, e.UserAgent, e.Success, e.ErrorMessage, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e domain.SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var userID sql.NullInt64
	if e.UserID != nil {
		userID = sql.NullInt64{Int64: *e.UserID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_logs (user_id, action, ip_address, user_agent, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, e.Action, e.IPAddress, e.UserAgent, e.Success, e.ErrorMessage, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

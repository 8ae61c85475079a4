package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// AuditRepository appends to the security log.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.SecurityEvent) error
}

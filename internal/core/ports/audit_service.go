package ports

import (
	"context"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// AuditService persists a single security event.
type AuditService interface {
	Record(ctx context.Context, event domain.SecurityEvent) error
}

// AuditSink accepts security events without blocking the caller.
type AuditSink interface {
	Enqueue(event domain.SecurityEvent)
}

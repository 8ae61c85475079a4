package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

const (
	maxAuditUserAgent = 512
	maxAuditAction    = 255
)

// AuditService writes security events to the store.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) Record(ctx context.Context, event domain.SecurityEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.Action = truncate(event.Action, maxAuditAction)
	event.UserAgent = truncate(event.UserAgent, maxAuditUserAgent)

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("action", event.Action).Msg("failed to insert security event")
		return err
	}

	ev := s.log.Debug()
	if !event.Success {
		ev = s.log.Warn()
	}
	ev.Str("action", event.Action).
		Str("ip", event.IPAddress).
		Bool("success", event.Success).
		Msg("security event")
	return nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

// AuditRepository persists security events to the security_logs collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionSecurityLogs)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e domain.SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"action":        e.Action,
		"ip_address":    e.IPAddress,
		"user_agent":    e.UserAgent,
		"success":       e.Success,
		"error_message": e.ErrorMessage,
		"created_at":    e.CreatedAt.UTC(),
	}
	if e.UserID != nil {
		doc["user_id"] = *e.UserID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

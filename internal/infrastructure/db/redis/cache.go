package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinefavs/catalog-api/internal/core/ports"
)

const keyPrefix = "catalog:"

// ResponseCache stores serialized responses with a TTL.
// Key format: catalog:<key>
type ResponseCache struct {
	client *redis.Client
}

// NewResponseCache creates a ResponseCache wrapping the given Redis client.
func NewResponseCache(client *redis.Client) *ResponseCache {
	return &ResponseCache{client: client}
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return val, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

var _ ports.ResponseCache = (*ResponseCache)(nil)

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
)

const fallbackDialTimeout = 5 * time.Second

// Connect opens the client behind the movie response cache and pings it, so a
// misconfigured cache fails startup instead of the first request.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis: REDIS_ADDR is not set")
	}

	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = fallbackDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: dial,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

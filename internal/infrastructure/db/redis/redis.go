// Package redis holds the optional Redis pieces of a deployment: the client
// bootstrap and the approval lock built on top of it. No Redis means no
// lock; the rest of the API runs without it.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roadmasterpro/project-api/internal/infrastructure/config"
)

const connectTimeout = 5 * time.Second

// Connect opens a client for the configured instance and proves it reachable
// with a ping before any lock is taken on it. An unreachable Redis is a
// startup fault for the caller to handle, not something to discover during
// an approval.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	return client, nil
}

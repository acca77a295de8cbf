// Package redis owns the message dedup cache. Redis is deliberately a small
// dependency here: it holds short-lived dedup keys, nothing the clinic data
// model depends on.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config captures the settings for the dedup cache connection.
type Config struct {
	Addr string
	DB   int
	// PoolSize bounds concurrent connections; each dispatcher worker hits
	// the cache once per message. Zero means the client default.
	PoolSize int
	// DialTimeout also bounds the startup ping. Zero means 5s.
	DialTimeout time.Duration
}

// Connect initialises a Redis client and verifies it with a ping, so a
// misconfigured cache fails the boot instead of the first reminder sweep.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 24h covers the longest window the senders need: one reminder per
// appointment per day, one notice per booking state.
const defaultDedupTTL = 24 * time.Hour

// MessageDeduper suppresses repeated sends of the same logical message. The
// caller builds the key (msg:<to>:<kind>:<ref>); this type only stores it
// for the configured window.
type MessageDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMessageDeduper wraps client; ttl <= 0 means the 24h default.
func NewMessageDeduper(client *redis.Client, ttl time.Duration) *MessageDeduper {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &MessageDeduper{client: client, ttl: ttl}
}

// Seen reports whether the key was already marked within the TTL window.
func (d *MessageDeduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the key until the TTL lapses.
func (d *MessageDeduper) Mark(ctx context.Context, key string) error {
	return d.client.Set(ctx, key, "1", d.ttl).Err()
}

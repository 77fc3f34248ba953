package redis

import (
	"context"
	"fmt"
	"time"

	"gyro-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DedupCache implements ports.DedupCache: the fast path for tx_id
// uniqueness. A hit means the id was committed recently; a miss proves
// nothing, the database unique constraint stays authoritative.
type DedupCache struct {
	client *goredis.Client
	prefix string
}

// NewDedupCache creates a new Redis-backed tx_id dedup cache.
func NewDedupCache(client *goredis.Client) *DedupCache {
	return &DedupCache{
		client: client,
		prefix: "txid:",
	}
}

func (c *DedupCache) key(account domain.Address, txID string) string {
	return c.prefix + string(account) + ":" + txID
}

// Seen reports whether the (account, tx_id) pair is in the cache.
func (c *DedupCache) Seen(ctx context.Context, account domain.Address, txID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(account, txID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the (account, tx_id) pair after a successful commit.
func (c *DedupCache) Mark(ctx context.Context, account domain.Address, txID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(account, txID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis dedup mark: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mistvale/storefront/internal/domain"
)

const sectionKeyPrefix = "homepage:"

// HomepageCache caches rendered homepage sections in Redis. A miss returns
// nil rather than an error so callers fall through to the database.
type HomepageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHomepageCache creates a new Redis-backed homepage section cache.
func NewHomepageCache(client *redis.Client, ttl time.Duration) *HomepageCache {
	return &HomepageCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached section, or nil on a miss.
func (c *HomepageCache) Get(ctx context.Context, key string) (*domain.HomepageSection, error) {
	data, err := c.client.Get(ctx, sectionKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get homepage section: %w", err)
	}

	var section domain.HomepageSection
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, fmt.Errorf("unmarshal homepage section: %w", err)
	}

	return &section, nil
}

// Set stores a section with the configured TTL.
func (c *HomepageCache) Set(ctx context.Context, s *domain.HomepageSection) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal homepage section: %w", err)
	}

	if err := c.client.Set(ctx, sectionKeyPrefix+s.Key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set homepage section: %w", err)
	}

	return nil
}

// Invalidate drops the cached section for a key.
func (c *HomepageCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sectionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del homepage section: %w", err)
	}

	return nil
}

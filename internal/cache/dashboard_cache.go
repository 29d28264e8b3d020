package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// DashboardCache keeps serialized aggregation results for a short TTL. The
// dashboard polls the same handful of queries on every page load; a minute of
// staleness is acceptable, a full fan-out of joins per poll is not.
type DashboardCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewDashboardCache(client *redisv9.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// Get unmarshals a cached result into dest and reports whether it was found.
func (c *DashboardCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.fullKey(key)).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get dashboard result failed: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal cached dashboard result failed: %w", err)
	}
	return true, nil
}

func (c *DashboardCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal dashboard result failed: %w", err)
	}
	if err := c.client.Set(ctx, c.fullKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set dashboard result failed: %w", err)
	}
	return nil
}

func (c *DashboardCache) fullKey(key string) string {
	return "dashboard:" + key
}

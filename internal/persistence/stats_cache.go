package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
)

const statsCacheKey = "support-desk:admin:stats"

// RedisStatsCache stores the admin stats snapshot under a single key.
type RedisStatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

type cachedStats struct {
	TicketsByStatus map[domain.TicketStatus]int64 `json:"tickets_by_status"`
	TotalUsers      int64                         `json:"total_users"`
	TotalTickets    int64                         `json:"total_tickets"`
}

// NewRedisStatsCache builds a cache over client. Entries expire after ttl.
func NewRedisStatsCache(client redis.Cmdable, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot; ok is false on a miss.
func (c *RedisStatsCache) Get(ctx context.Context) (stats domain.Stats, ok bool, err error) {
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Stats{}, false, nil
	}
	if err != nil {
		return domain.Stats{}, false, err
	}

	var cached cachedStats
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Stats{}, false, err
	}
	return domain.Stats{
		TicketsByStatus: cached.TicketsByStatus,
		TotalUsers:      cached.TotalUsers,
		TotalTickets:    cached.TotalTickets,
	}, true, nil
}

// Set stores the snapshot with the configured TTL.
func (c *RedisStatsCache) Set(ctx context.Context, stats domain.Stats) error {
	raw, err := json.Marshal(cachedStats{
		TicketsByStatus: stats.TicketsByStatus,
		TotalUsers:      stats.TotalUsers,
		TotalTickets:    stats.TotalTickets,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err()
}

// Invalidate drops the snapshot.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsCacheKey).Err()
}

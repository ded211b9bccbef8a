package dataset

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"resume-dashboard/models"
	"resume-dashboard/utils"
)

// Cache holds a table snapshot for a bounded lifetime. Writes go through
// Invalidate explicitly; there is no implicit refresh besides expiry.
type Cache interface {
	Get(ctx context.Context) (*Table, bool)
	Set(ctx context.Context, t *Table)
	Invalidate(ctx context.Context)
}

// MemoryCache is the default in-process snapshot cache.
type MemoryCache struct {
	mu      sync.Mutex
	table   *Table
	expires time.Time
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) Get(_ context.Context) (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.table, true
}

func (c *MemoryCache) Set(_ context.Context, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
	c.expires = time.Now().Add(c.ttl)
}

func (c *MemoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
}

const redisSnapshotKey = "resume:snapshot"

// RedisCache stores the JSON-serialized snapshot in Redis so it survives
// process restarts. Any Redis failure degrades to a cache miss.
type RedisCache struct {
	client utils.RedisClient
	ttl    time.Duration
}

func NewRedisCache(client utils.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*Table, bool) {
	raw, err := c.client.GetFromCache(ctx, redisSnapshotKey)
	if err != nil || raw == "" {
		return nil, false
	}
	var rows []models.Record
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		slog.Warn("discarding unreadable snapshot from redis", "error", err)
		return nil, false
	}
	return New(rows), true
}

func (c *RedisCache) Set(ctx context.Context, t *Table) {
	raw, err := json.Marshal(t.Rows())
	if err != nil {
		slog.Warn("failed to serialize snapshot for redis", "error", err)
		return
	}
	if err := c.client.SetToCache(ctx, redisSnapshotKey, string(raw), c.ttl); err != nil {
		slog.Warn("failed to cache snapshot in redis", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.SetToCache(ctx, redisSnapshotKey, "", time.Millisecond); err != nil {
		slog.Warn("failed to invalidate redis snapshot", "error", err)
	}
}

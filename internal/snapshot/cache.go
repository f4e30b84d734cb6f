package snapshot

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/AppleLamps/elon-hub/internal/model"
	"github.com/redis/go-redis/v9"
)

// Clock is injectable so cache tests advance time instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Cache is a single global slot holding the last computed snapshot. It
// absorbs bursts of near-simultaneous reads; it is not invalidated by
// ingestion and may serve data up to one TTL stale.
type Cache interface {
	Get() (model.Snapshot, bool)
	Set(snap model.Snapshot)
}

type MemoryCache struct {
	mu        sync.Mutex
	snap      model.Snapshot
	setAt     time.Time
	populated bool

	ttl   time.Duration
	clock Clock
}

func NewMemoryCache(ttl time.Duration, clock Clock) *MemoryCache {
	return &MemoryCache{ttl: ttl, clock: clock}
}

func (c *MemoryCache) Get() (model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.populated || c.clock.Now().Sub(c.setAt) >= c.ttl {
		return model.Snapshot{}, false
	}
	return c.snap, true
}

func (c *MemoryCache) Set(snap model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = snap
	c.setAt = c.clock.Now()
	c.populated = true
}

// RedisCache keeps the slot in Redis so every API replica shares it; the TTL
// rides on the key expiry. Cache errors degrade to a miss.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: key, ttl: ttl}
}

func (c *RedisCache) Get() (model.Snapshot, bool) {
	raw, err := c.client.Get(context.Background(), c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("snapshot cache read failed", "error", err)
		}
		return model.Snapshot{}, false
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		slog.Warn("snapshot cache entry unreadable", "error", err)
		return model.Snapshot{}, false
	}
	return snap, true
}

func (c *RedisCache) Set(snap model.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("snapshot cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(context.Background(), c.key, raw, c.ttl).Err(); err != nil {
		slog.Warn("snapshot cache write failed", "error", err)
	}
}

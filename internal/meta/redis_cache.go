package meta

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a shared Redis instance, for deployments
// running more than one server process. Cache misses and marshal failures
// degrade to uncached reads; they never fail a request.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache with the given key TTL.
// A TTL of 0 means entries live until invalidated.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(name string) string {
	return "crmmeta:doctype:" + name
}

func (c *RedisCache) Get(ctx context.Context, name string) (*DocType, bool) {
	raw, err := c.client.Get(ctx, cacheKey(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("redis cache read failed", "doctype", name, "err", err)
		}
		return nil, false
	}
	var dt DocType
	if err := json.Unmarshal(raw, &dt); err != nil {
		log.Warn("redis cache entry corrupt, dropping", "doctype", name, "err", err)
		c.Invalidate(ctx, name)
		return nil, false
	}
	return &dt, true
}

func (c *RedisCache) Set(ctx context.Context, dt *DocType) {
	raw, err := json.Marshal(dt)
	if err != nil {
		log.Warn("redis cache marshal failed", "doctype", dt.Name, "err", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(dt.Name), raw, c.ttl).Err(); err != nil {
		log.Warn("redis cache write failed", "doctype", dt.Name, "err", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, name string) {
	if err := c.client.Del(ctx, cacheKey(name)).Err(); err != nil {
		log.Warn("redis cache invalidate failed", "doctype", name, "err", err)
	}
}

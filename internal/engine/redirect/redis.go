package redirect

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "link:"

// RedisCache stores entries as JSON with a server-side TTL. Redis errors
// degrade to cache misses so the redirect path keeps working without it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, shortCode string) (*Entry, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+shortCode).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("short_code", shortCode).Msg("redis get failed")
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Warn().Err(err).Str("short_code", shortCode).Msg("corrupt cache entry")
		return nil, false
	}

	return &entry, true
}

func (c *RedisCache) Set(ctx context.Context, shortCode string, entry *Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("short_code", shortCode).Msg("cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+shortCode, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("short_code", shortCode).Msg("redis set failed")
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

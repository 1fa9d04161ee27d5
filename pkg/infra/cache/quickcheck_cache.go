package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/app/moderation"
)

// RedisQuickCheckCache caches quick-check results in Redis with a TTL. Redis
// being down only costs the cache: errors are logged at debug and the caller
// recomputes.
type RedisQuickCheckCache struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

func NewRedisQuickCheckCache(logger *logrus.Logger, client *redis.Client, ttl time.Duration) moderation.QuickCheckCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisQuickCheckCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func (c *RedisQuickCheckCache) Get(ctx context.Context, key string) (*moderation.QuickCheckResult, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("quick-check cache read failed")
		}
		return nil, false
	}

	var result moderation.QuickCheckResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.WithError(err).Debug("quick-check cache entry corrupt")
		return nil, false
	}
	return &result, true
}

func (c *RedisQuickCheckCache) Set(ctx context.Context, key string, result *moderation.QuickCheckResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.WithError(err).Debug("quick-check cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("quick-check cache write failed")
	}
}

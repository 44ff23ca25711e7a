package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gstbooks:reset:"

// RedisLimiter shares one fixed-window counter per identity across instances.
// INCR is atomic on the server side, so concurrent requests cannot lose
// increments; the first increment in a window sets the expiry.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, windowDur time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 3
	}
	if windowDur <= 0 {
		windowDur = time.Hour
	}
	return &RedisLimiter{client: client, limit: limit, window: windowDur}
}

func (l *RedisLimiter) CheckAndRecord(ctx context.Context, identity string) (Decision, error) {
	key := redisKeyPrefix + identity

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: incr %q: %w", identity, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit: expire %q: %w", identity, err)
		}
	}
	if count <= int64(l.limit) {
		return Decision{Allowed: true}, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

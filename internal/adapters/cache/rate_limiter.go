package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements fixed-window counting in Redis. The window TTL
// is set when the first request of a window creates the key, so the counter
// self-clears.
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter creates a rate limiter backed by Redis counters.
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (s *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := "auth:ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Release decrements the window counter after an outcome that should not
// count against the limit. A key that already expired would go negative and
// outlive its TTL, so negative counters are deleted instead.
func (s *RedisRateLimiter) Release(ctx context.Context, key string) error {
	redisKey := "auth:ratelimit:" + key

	count, err := s.client.Decr(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	if count < 0 {
		return s.client.Del(ctx, redisKey).Err()
	}
	return nil
}

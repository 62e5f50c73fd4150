package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard implements Guard with a SET NX lease. The lease expires on its
// own; ticks are idempotent per minute so there is no release path.
type RedisGuard struct {
	client *redis.Client
	prefix string
}

func NewRedisGuard(redisURL, prefix string) (*RedisGuard, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisGuard{
		client: redis.NewClient(options),
		prefix: prefix,
	}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := g.client.SetNX(ctx, g.prefix+":"+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease %q: %w", key, err)
	}

	return acquired, nil
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}

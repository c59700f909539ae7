package ports

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient covers the subset of go-redis used for sessions and the token
// blacklist, so services can take a mock in tests.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

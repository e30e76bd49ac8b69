package forms

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const gatePrefix = "admin:gate:"

// RedisGate shares the in-flight guard between dashboard replicas. Keys
// expire after ttl so a crashed submission cannot hold a form forever.
type RedisGate struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGate(client *redis.Client, ttl time.Duration) *RedisGate {
	return &RedisGate{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid REDIS_URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return client, nil
}

func (g *RedisGate) TryAcquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, gatePrefix+key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, errors.Wrapf(err, "acquire %s", key)
	}
	return ok, nil
}

func (g *RedisGate) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, gatePrefix+key).Err(); err != nil {
		return errors.Wrapf(err, "release %s", key)
	}
	return nil
}

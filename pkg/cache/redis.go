package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lmeier/layermix/pkg/errors"
)

// keyPrefix namespaces entries so a shared Redis can hold other data.
const keyPrefix = "layermix:"

// RedisCache stores entries in Redis. Expiry is delegated to the
// server, so stale entries never need sweeping.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects using a standard Redis URL
// (redis://[user:pass@]host:port/db) and verifies the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis URL %q cannot be parsed", url)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeSource, err, "redis at %s is not reachable", opts.Addr)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, keyPrefix+hashKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeSource, err, "cache entry for %q cannot be read", key)
	}
	return payload, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+hashKey(key), payload, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "cache entry for %q cannot be written", key)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+hashKey(key)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "cache entry for %q cannot be removed", key)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.client.Close() }

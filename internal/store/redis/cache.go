package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "morstats:cache:"
	scanBatch        = 100
)

// ReadCache is a read-side cache stored in Redis. Every key lives under
// prefix so Clear never touches foreign keys.
type ReadCache struct {
	client *redis.Client
	prefix string
}

func NewReadCache(ctx context.Context, url, prefix string) (*ReadCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return newReadCache(client, prefix), nil
}

func newReadCache(client *redis.Client, prefix string) *ReadCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ReadCache{client: client, prefix: prefix}
}

func (c *ReadCache) key(k string) string { return c.prefix + k }

func (c *ReadCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (c *ReadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the cache prefix.
func (c *ReadCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", c.prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	metrics.CacheClearsTotal.Inc()
	return nil
}

func (c *ReadCache) Close() error {
	return c.client.Close()
}

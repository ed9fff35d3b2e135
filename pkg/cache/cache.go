package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations.
	defaultOperationTimeout = 5 * time.Second

	// captionTTL bounds how long a rendered caption document is reused.
	// Upstream tracks change rarely; an hour keeps repeat downloads cheap.
	captionTTL = time.Hour
)

var ErrMiss = errors.New("cache: key not found")

// Cache is a thin Redis wrapper. A disabled cache is a valid value: every
// write becomes a no-op and every read reports a miss, so callers never
// need to branch on whether caching is configured.
type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, enabled: true}, nil
}

func (c *Cache) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultOperationTimeout)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(key string, dest interface{}) error {
	if !c.enabled {
		return ErrMiss
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(key string) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}

func captionKey(videoID, language, format string) string {
	return fmt.Sprintf("caption:%s:%s:%s", videoID, language, format)
}

// CacheCaption stores a rendered caption document for a video/language/format
// combination.
func (c *Cache) CacheCaption(videoID, language, format string, result interface{}) error {
	return c.Set(captionKey(videoID, language, format), result, captionTTL)
}

// GetCachedCaption loads a previously rendered caption document. Returns
// ErrMiss when the entry is absent or the cache is disabled.
func (c *Cache) GetCachedCaption(videoID, language, format string, dest interface{}) error {
	return c.Get(captionKey(videoID, language, format), dest)
}

// InvalidateCaption drops every cached rendering for a video.
func (c *Cache) InvalidateCaption(videoID string) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("caption:%s:*", videoID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestCache keeps redacted test views in Redis. A nil *TestCache is a
// disabled cache.
type TestCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewTestCache(client *redis.Client, ttl time.Duration) *TestCache {
	if client == nil {
		return nil
	}
	return &TestCache{redis: client, ttl: ttl}
}

func testCacheKey(id uint) string {
	return fmt.Sprintf("ielts:test:%d", id)
}

func (c *TestCache) Get(ctx context.Context, id uint) *TestView {
	if c == nil {
		return nil
	}

	data, err := c.redis.Get(ctx, testCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting test %d: %v", id, err)
		}
		return nil
	}

	var view TestView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		log.Printf("Failed to unmarshal cached test %d: %v", id, err)
		return nil
	}
	return &view
}

func (c *TestCache) Set(ctx context.Context, view *TestView) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal test view: %w", err)
	}
	if err := c.redis.Set(ctx, testCacheKey(view.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	return nil
}

func (c *TestCache) Delete(ctx context.Context, id uint) error {
	if c == nil {
		return nil
	}
	return c.redis.Del(ctx, testCacheKey(id)).Err()
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// Cache implements chartshare.Cache on Redis, for multi-instance
// deployments where the discovery pools must be shared.
type Cache struct {
	client *redis.Client
}

// Config holds connection settings for the Redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New creates a cache around an existing Redis client.
func New(client *redis.Client) chartshare.Cache {
	return &Cache{client: client}
}

// NewWithConfig dials Redis and verifies the connection.
func NewWithConfig(ctx context.Context, cfg Config) (chartshare.Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return &Cache{client: client}, nil
}

// Get retrieves a value by key; redis.Nil is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores a value with a TTL.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

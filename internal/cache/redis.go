// Package cache keeps a short-lived copy of JSON-encodable values in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joao-brasil/stock-overview/internal/config"
	"github.com/joao-brasil/stock-overview/internal/metrics"
)

// SummaryKey is the Redis key holding the materials summary.
const SummaryKey = "stock:materials-summary"

// Redis stores one JSON value under a fixed key with a TTL.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewClient creates a go-redis client for cfg.
func NewClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// New wraps client. Values written with Store expire after ttl.
func New(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

// Load decodes the cached value into dst. It reports false when nothing is
// cached.
func (r *Redis) Load(ctx context.Context, dst any) (bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return false, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return false, fmt.Errorf("decoding %s: %w", r.key, err)
	}
	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return true, nil
}

// Store encodes v and writes it with the configured TTL.
func (r *Redis) Store(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", r.key, err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	metrics.CacheOperations.WithLabelValues("set", "ok").Inc()
	return nil
}

// Ping checks connectivity with Redis.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

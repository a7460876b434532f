package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/config"
)

// RedisStore is the durable Store implementation backed by Redis. Concurrent
// writes from multiple tabs resolve last-write-wins, which is what the
// underlying SET semantics give us.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg config.Redis, log *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	log.Info("Redis store connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return &RedisStore{
		client: client,
		log:    log,
	}, nil
}

// Get returns the value stored under key, or def when the key is absent.
func (s *RedisStore) Get(ctx context.Context, key, def string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return val, nil
}

// Set stores value under key.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Deleting an absent key is a no-op.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

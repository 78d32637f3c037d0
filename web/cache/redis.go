// Package cache holds the Redis connection used for login throttling and
// short-lived response caching. With no address configured it runs an
// embedded miniredis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amoskalev/notepanel/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get for a missing key.
var ErrMiss = errors.New("cache miss")

type Store struct {
	client    *redis.Client
	miniRedis *miniredis.Miniredis
}

// Open connects to redisAddr, or starts an embedded server when it is empty.
func Open(ctx context.Context, redisAddr string) (*Store, error) {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		logger.Info("Embedded Redis started on ", mr.Addr())
		return &Store{
			client:    redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			miniRedis: mr,
		}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
	}
	logger.Info("Connected to external Redis at ", redisAddr)
	return &Store{client: client}, nil
}

// NewStore wraps an existing client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) IsEmbedded() bool {
	return s.miniRedis != nil
}

// Close closes the client and stops the embedded server if any.
func (s *Store) Close() error {
	err := s.client.Close()
	if s.miniRedis != nil {
		s.miniRedis.Close()
	}
	return err
}

func (s *Store) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	result, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return result, err
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Incr increments key and starts its expiry window on the first hit.
// It returns the new count and the time left in the window.
func (s *Store) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// also repairs a counter left without expiry
	if ttl < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return n, ttl, nil
}

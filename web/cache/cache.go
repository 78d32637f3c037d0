package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amoskalev/notepanel/logger"

	"github.com/goccy/go-json"
)

const (
	TTLBlog = 30 * time.Second

	KeyBlogPublished = "blog:published"
)

// GetJSON reads key and decodes it into dest. A missing key is ErrMiss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) error {
	val, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *Store) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.Set(ctx, key, string(data), expiration)
}

// GetOrSet fills dest from the cache, or from fn on a miss. Cache failures
// fall through to fn; only fn's error is returned.
func GetOrSet[T any](ctx context.Context, s *Store, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	err := s.GetJSON(ctx, key, &cached)
	if err == nil {
		logger.Debugf("Cache hit for key: %s", key)
		return cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.Warningf("Cache read for key %s failed: %v", key, err)
	}

	value, err := fn()
	if err != nil {
		return value, err
	}
	if err := s.SetJSON(ctx, key, value, expiration); err != nil {
		logger.Warningf("Failed to set cache for key %s: %v", key, err)
	}
	return value, nil
}

// InvalidateBlog drops the cached published listing.
func (s *Store) InvalidateBlog(ctx context.Context) {
	if err := s.Delete(ctx, KeyBlogPublished); err != nil {
		logger.Warning("invalidate blog cache failed:", err)
	}
}

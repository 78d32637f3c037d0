package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	s := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestIncrWindow(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, ttl, err := s.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.Positive(t, ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	n, _, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestIncrRepairsMissingExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set("k", "5"))

	n, ttl, err := s.Incr(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, time.Minute, ttl)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestGetOrSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	calls := 0
	fill := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := GetOrSet(ctx, s, "list", time.Minute, fill)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = GetOrSet(ctx, s, "list", time.Minute, fill)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	_, err = GetOrSet(ctx, s, "other", time.Minute, func() ([]string, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestGetMiss(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestOpenEmbedded(t *testing.T) {
	s, err := Open(context.Background(), "")
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.IsEmbedded())
	require.NoError(t, s.Set(context.Background(), "k", "v", 0))
	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

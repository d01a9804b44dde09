package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_StaleEntryIsOverwritten(t *testing.T) {
	s := NewMemoryStore()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	h, err := s.Hit(context.Background(), "k", start, time.Minute)
	require.NoError(t, err)
	assert.True(t, h.Fresh)

	h, err = s.Hit(context.Background(), "k", start.Add(30*time.Second), time.Minute)
	require.NoError(t, err)
	assert.False(t, h.Fresh)
	assert.Equal(t, 2, h.Count)
	assert.Equal(t, start, h.WindowStart)

	later := start.Add(2 * time.Minute)
	h, err = s.Hit(context.Background(), "k", later, time.Minute)
	require.NoError(t, err)
	assert.True(t, h.Fresh)
	assert.Equal(t, 1, h.Count)
	assert.Equal(t, later, h.WindowStart)
}

func TestMemoryStore_HitExactlyAtWindowEndStillCounts(t *testing.T) {
	s := NewMemoryStore()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Hit(context.Background(), "k", start, time.Minute)
	require.NoError(t, err)

	h, err := s.Hit(context.Background(), "k", start.Add(time.Minute), time.Minute)
	require.NoError(t, err)
	assert.False(t, h.Fresh)
	assert.Equal(t, 2, h.Count)

	h, err = s.Hit(context.Background(), "k", start.Add(time.Minute+time.Millisecond), time.Minute)
	require.NoError(t, err)
	assert.True(t, h.Fresh)
}

func TestMemoryStore_CleanupRemovesOnlyStale(t *testing.T) {
	s := NewMemoryStore()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = s.Hit(context.Background(), "old", start, time.Minute)
	_, _ = s.Hit(context.Background(), "new", start.Add(90*time.Second), time.Minute)

	removed := s.Cleanup(start.Add(2*time.Minute), time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
}

// Runs against a real server only when RATE_LIMIT_REDIS_TEST_ADDR is set.
func TestRedisStore_FixedWindow(t *testing.T) {
	addr := os.Getenv("RATE_LIMIT_REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("RATE_LIMIT_REDIS_TEST_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	prefix := "portfolio:test:" + time.Now().Format("150405.000000")
	s := NewRedisStore(rdb, WithKeyPrefix(prefix))

	window := 300 * time.Millisecond
	now := time.Now()

	h, err := s.Hit(ctx, "ip", now, window)
	require.NoError(t, err)
	assert.True(t, h.Fresh)

	h, err = s.Hit(ctx, "ip", now, window)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Count)
	assert.False(t, h.Fresh)

	time.Sleep(window + 100*time.Millisecond)

	h, err = s.Hit(ctx, "ip", time.Now(), window)
	require.NoError(t, err)
	assert.True(t, h.Fresh)
}

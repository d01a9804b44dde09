package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/engabdalla/portfolio-api/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitCleanup(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	_, err := store.Hit(context.Background(), "old", time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, err)
	_, err = store.Hit(context.Background(), "fresh", time.Now(), time.Minute)
	require.NoError(t, err)

	task := NewRateLimitCleanup(store, time.Minute, 5*time.Millisecond, nil)
	task.Start()
	defer task.Stop()

	assert.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRateLimitCleanup_StopIsIdempotent(t *testing.T) {
	task := NewRateLimitCleanup(ratelimit.NewMemoryStore(), time.Minute, time.Hour, nil)
	task.Start()
	assert.NoError(t, task.Stop())
	assert.NoError(t, task.Stop())
}

func TestRateLimitCleanup_ZeroIntervalNeverStarts(t *testing.T) {
	task := NewRateLimitCleanup(ratelimit.NewMemoryStore(), time.Minute, 0, nil)
	task.Start()
	assert.NoError(t, task.Stop())
}

package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_NinthHitRejected(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(NewMemoryStore(), 8, 10*time.Minute, WithClock(clock.Now))

	for i := 1; i <= 8; i++ {
		dec, err := l.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "hit %d should be allowed", i)
		assert.Equal(t, i, dec.Count)
		assert.Equal(t, 8-i, dec.Remaining)
	}

	dec, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 9, dec.Count)
	assert.Equal(t, 0, dec.Remaining)

	other, err := l.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "a different key has its own window")
}

func TestLimiter_RejectedHitsStillCount(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(NewMemoryStore(), 2, time.Minute, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		_, err := l.Allow(context.Background(), "ip")
		require.NoError(t, err)
	}

	dec, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 6, dec.Count)
}

func TestLimiter_WindowResets(t *testing.T) {
	clock := newFakeClock()
	window := 10 * time.Minute
	l := NewLimiter(NewMemoryStore(), 8, window, WithClock(clock.Now))

	for i := 0; i < 12; i++ {
		_, err := l.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
	}

	// Exactly at the boundary the window is still live
	clock.Advance(window)
	dec, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)

	clock.Advance(time.Millisecond)
	dec, err = l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	assert.Equal(t, 1, dec.Count)
	assert.Equal(t, clock.Now().Add(window), dec.ResetAt)
}

func TestLimiter_FreshWindowAlwaysAllowed(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), 0, time.Minute)

	dec, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	dec, err = l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
}

func TestLimiter_EmptyKeySkipped(t *testing.T) {
	store := NewMemoryStore()
	l := NewLimiter(store, 1, time.Minute)

	for i := 0; i < 5; i++ {
		dec, err := l.Allow(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.True(t, dec.Skipped)
	}
	assert.Equal(t, 0, store.Len())
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Time, time.Duration) (Hit, error) {
	return Hit{}, errors.New("connection refused")
}

func TestLimiter_StoreErrorFailsOpen(t *testing.T) {
	l := NewLimiter(failingStore{}, 1, time.Minute)

	dec, err := l.Allow(context.Background(), "ip")
	assert.Error(t, err)
	assert.True(t, dec.Allowed)
}

func TestLimiter_ConcurrentHitsSameKey(t *testing.T) {
	store := NewMemoryStore()
	l := NewLimiter(store, 1000, time.Minute)

	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				dec, err := l.Allow(context.Background(), "same-ip")
				if err == nil && dec.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, allowed)

	dec, err := l.Allow(context.Background(), "same-ip")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker+1, dec.Count)
	assert.False(t, dec.Allowed)
}

func TestDecision_RetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Duration(0), Decision{}.RetryAfter(now))
	assert.Equal(t, 90*time.Second, Decision{ResetAt: now.Add(90 * time.Second)}.RetryAfter(now))
	assert.Equal(t, time.Duration(0), Decision{ResetAt: now.Add(-time.Second)}.RetryAfter(now))
}

package ratelimit

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBuckets_ClientsDoNotShareTokens(t *testing.T) {
	b := NewTokenBuckets(1, 3)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		assert.True(t, b.Allow("noisy", now))
	}
	assert.False(t, b.Allow("noisy", now), "burst exhausted")

	for i := 0; i < 30; i++ {
		assert.True(t, b.Allow("10.0.0."+strconv.Itoa(i), now))
	}

	assert.True(t, b.Allow("noisy", now.Add(time.Second)), "one token refilled")
}

func TestTokenBuckets_Cleanup(t *testing.T) {
	b := NewTokenBuckets(10, 20)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	b.Allow("old", now)
	b.Allow("new", now.Add(2*time.Minute))

	removed := b.Cleanup(now.Add(2*time.Minute), time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, b.Len())
}

func TestTokenBuckets_RefillInterval(t *testing.T) {
	assert.Equal(t, time.Minute, NewTokenBuckets(10, 20).RefillInterval())
	assert.Equal(t, 2*time.Minute, NewTokenBuckets(0.5, 60).RefillInterval())
	assert.Equal(t, time.Hour, NewTokenBuckets(0, 1).RefillInterval())
}

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBuckets keeps one token bucket per client key, so a single noisy
// client drains only its own bucket.
type TokenBuckets struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
}

func NewTokenBuckets(rps float64, burst int) *TokenBuckets {
	return &TokenBuckets{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket at now
func (b *TokenBuckets) Allow(key string, now time.Time) bool {
	b.mu.Lock()
	entry, ok := b.buckets[key]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(b.rps, b.burst)}
		b.buckets[key] = entry
	}
	entry.lastSeen = now
	b.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Cleanup drops buckets idle for longer than idle and returns how many
// were removed. A dropped bucket comes back full, so idle should be at
// least burst/rps.
func (b *TokenBuckets) Cleanup(now time.Time, idle time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for key, entry := range b.buckets {
		if now.Sub(entry.lastSeen) > idle {
			delete(b.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients
func (b *TokenBuckets) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buckets)
}

// RefillInterval is how long an empty bucket takes to fill up again
func (b *TokenBuckets) RefillInterval() time.Duration {
	if b.rps <= 0 {
		return time.Hour
	}
	d := time.Duration(float64(b.burst) / float64(b.rps) * float64(time.Second))
	if d < time.Minute {
		return time.Minute
	}
	return d
}

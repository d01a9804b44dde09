package ratelimit

import (
	"context"
	"time"
)

// Clock returns the current time
type Clock func() time.Time

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed bool
	// Skipped is set when the request carried no client key
	Skipped   bool
	Count     int
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left in the current window
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.IsZero() || !d.ResetAt.After(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// Limiter applies a fixed-window limit on top of a Store
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	clock  Clock
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

func NewLimiter(store Store, max int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		max:    max,
		window: window,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Max() int              { return l.max }
func (l *Limiter) Window() time.Duration { return l.window }
func (l *Limiter) Now() time.Time        { return l.clock() }

// Allow records a hit for key. An empty key is not limited at all.
// A hit that opens a fresh window is always allowed. Rejected hits stay
// counted. When the store fails the returned decision allows the request
// and the error is handed back for logging.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if key == "" || l.store == nil {
		return Decision{Allowed: true, Skipped: true, Limit: l.max, Remaining: l.max}, nil
	}

	now := l.clock()
	hit, err := l.store.Hit(ctx, key, now, l.window)
	if err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max}, err
	}

	remaining := l.max - hit.Count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   hit.Fresh || hit.Count <= l.max,
		Count:     hit.Count,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   hit.WindowStart.Add(l.window),
	}, nil
}

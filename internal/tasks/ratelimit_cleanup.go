package tasks

import (
	"sync"
	"time"

	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/ratelimit"
)

// Sweeper is rate limit state whose stale entries can be dropped
type Sweeper interface {
	Cleanup(now time.Time, window time.Duration) int
}

// RateLimitCleanup periodically drops expired rate limit state
// so it does not grow with every client ever seen
type RateLimitCleanup struct {
	store    Sweeper
	window   time.Duration
	interval time.Duration
	clock    ratelimit.Clock

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewRateLimitCleanup creates a new cleanup task. A nil clock means
// time.Now.
func NewRateLimitCleanup(store Sweeper, window, interval time.Duration, clock ratelimit.Clock) *RateLimitCleanup {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimitCleanup{
		store:    store,
		window:   window,
		interval: interval,
		clock:    clock,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup task in the background
func (rc *RateLimitCleanup) Start() {
	if rc.interval <= 0 {
		return
	}
	rc.wg.Add(1)
	go rc.runPeriodically()
}

// Stop ends the task and waits for it to exit. Safe to call more than once.
func (rc *RateLimitCleanup) Stop() error {
	rc.once.Do(func() { close(rc.done) })
	rc.wg.Wait()
	return nil
}

func (rc *RateLimitCleanup) runPeriodically() {
	defer rc.wg.Done()

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RateLimitCleanup) cleanup() {
	if removed := rc.store.Cleanup(rc.clock(), rc.window); removed > 0 {
		logging.GetGlobalLogger().Debug("Rate limit cleanup dropped %d expired windows", removed)
	}
}

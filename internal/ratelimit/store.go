// Package ratelimit implements the fixed-window per-client counter that
// guards the contact endpoint.
//
// A window opens on the first hit from a key and lasts Window. Every hit
// inside the window increments the counter, including hits that end up
// rejected, so retrying does not reset the limit. Once a window is older
// than Window the next hit overwrites it with a fresh one.
//
// The default MemoryStore is process local: replicas each enforce the limit
// independently. RedisStore shares the counters when that matters.
//
// At the boundary the stores differ by one tick: MemoryStore still counts a
// hit whose window is exactly Window old, while RedisStore has already
// expired the key and opens a fresh window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Hit is the state of a key's window right after a hit was recorded
type Hit struct {
	Count       int
	WindowStart time.Time
	// Fresh is true when this hit opened a new window
	Fresh bool
}

// Store records hits. Implementations must perform the whole
// read-modify-write of a key atomically.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Hit, error)
}

type entry struct {
	count int
	ts    time.Time
}

// MemoryStore keeps windows in a mutex-guarded map
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.Sub(e.ts) > window {
		s.entries[key] = &entry{count: 1, ts: now}
		return Hit{Count: 1, WindowStart: now, Fresh: true}, nil
	}

	e.count++
	return Hit{Count: e.count, WindowStart: e.ts}, nil
}

// Len returns the number of tracked keys, stale ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup drops windows that are already stale. A dropped key behaves
// exactly like a stale one on its next hit.
func (s *MemoryStore) Cleanup(now time.Time, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if now.Sub(e.ts) > window {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript increments the key and arms its expiry on the first hit of a
// window. It returns the count and the remaining TTL in milliseconds.
var hitScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {c, ttl}
`)

// RedisStore shares fixed windows between replicas. The window is the key's
// TTL, so expiry is driven by the Redis clock rather than the caller's now.
type RedisStore struct {
	rdb    redis.Scripter
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func NewRedisStore(rdb redis.Scripter, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Hit, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = 1
	}

	vals, err := hitScript.Run(ctx, s.rdb, []string{s.prefix + ":" + key}, ms).Int64Slice()
	if err != nil {
		return Hit{}, fmt.Errorf("redis rate limit hit: %w", err)
	}
	if len(vals) != 2 {
		return Hit{}, fmt.Errorf("redis rate limit hit: unexpected reply %v", vals)
	}

	count := int(vals[0])
	ttl := time.Duration(vals[1]) * time.Millisecond
	if count == 1 {
		return Hit{Count: 1, WindowStart: now, Fresh: true}, nil
	}
	return Hit{Count: count, WindowStart: now.Add(ttl - window)}, nil
}

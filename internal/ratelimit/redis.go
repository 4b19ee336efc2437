package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript increments the counter and sets the window expiry on the first
// hit, returning {count, pttl}. A key that somehow lost its TTL gets a fresh one.
var hitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore keeps counters in Redis so every instance behind a load
// balancer shares one window per caller.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a RedisStore on client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Hit atomically increments key in Redis.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (Window, error) {
	res, err := hitScript.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit hit %s: %w", key, err)
	}
	if len(res) != 2 {
		return Window{}, fmt.Errorf("ratelimit hit %s: unexpected reply %v", key, res)
	}

	return Window{
		Count:   res[0],
		ResetAt: s.now().Add(time.Duration(res[1]) * time.Millisecond),
	}, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

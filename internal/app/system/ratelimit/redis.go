package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var windowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// Redis shares counters across instances. When Redis is unreachable it
// falls back to a local InMemory limiter so scans keep flowing.
type Redis struct {
	client   *redis.Client
	limit    int
	window   time.Duration
	prefix   string
	fallback *InMemory
	log      *zap.Logger
}

// NewRedis builds a Redis-backed limiter. A nil client uses the fallback only.
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *Redis {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		client:   client,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		fallback: NewInMemory(limit, window),
		log:      logger,
	}
}

// Fallback exposes the local limiter, e.g. to run its sweeper.
func (l *Redis) Fallback() *InMemory { return l.fallback }

// Allow counts one request for key.
func (l *Redis) Allow(ctx context.Context, key string) Decision {
	if l.client == nil {
		return l.fallback.Allow(ctx, key)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := windowScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Result()
	if err != nil {
		l.log.Warn("rate limiter: redis unavailable, using local counters", zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		l.log.Warn("rate limiter: unexpected script result, using local counters")
		return l.fallback.Allow(ctx, key)
	}
	count, _ := vals[0].(int64)
	ttlMs, _ := vals[1].(int64)
	if ttlMs < 0 {
		ttlMs = l.window.Milliseconds()
	}
	return decide(int(count), l.limit, time.Now().UTC().Add(time.Duration(ttlMs)*time.Millisecond))
}

package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fixed-window counter shared across instances. The first INCR in a
// window sets the expiry, so a key never outlives its window.
const counterScript = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if n > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisKeyPrefix = "throttle:"

// RedisLimiter enforces the same budgets as RateLimiter but against a
// shared Redis counter. It fails open: if Redis is unreachable the
// request proceeds rather than blocking the workflow.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, script: redis.NewScript(counterScript)}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	verdict, err := l.script.Run(ctx, l.client,
		[]string{redisKeyPrefix + key}, window.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return verdict == 1
}

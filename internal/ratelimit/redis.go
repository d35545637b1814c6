package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Fixed-window counter evaluated atomically on the redis server. Redis TIME is
// the clock so all application instances agree on window boundaries. Keys
// expire with their window, so eviction needs no sweep.
const fixedWindowScript = `
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "count", "reset")
local count = tonumber(data[1])
local reset = tonumber(data[2])

if count == nil or now >= reset then
  reset = now + window
  redis.call("HMSET", KEYS[1], "count", 1, "reset", reset)
  redis.call("PEXPIREAT", KEYS[1], reset)
  return {1, limit - 1, reset}
end

if count >= limit then
  return {0, 0, reset}
end

count = count + 1
redis.call("HSET", KEYS[1], "count", count)
return {1, limit - count, reset}
`

const keyPrefix = "momta:subscribe:rl:%s"

// RedisStore shares window counters across server instances.
type RedisStore struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		script: redis.NewScript(fixedWindowScript),
	}
}

func (s *RedisStore) Check(ctx context.Context, identity string, limit int, window time.Duration) (Result, error) {
	res, err := s.script.Run(
		ctx,
		s.client,
		[]string{fmt.Sprintf(keyPrefix, identity)},
		limit,
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) < 3 {
		return Result{}, errors.New("invalid rate limit script response")
	}

	return Result{
		Allowed:   castToInt(res[0]) == 1,
		Remaining: int(castToInt(res[1])),
		ResetAt:   time.UnixMilli(castToInt(res[2])),
	}, nil
}

// Sweep is a no-op: PEXPIREAT bounds memory on the redis side.
func (s *RedisStore) Sweep(context.Context) (int, error) {
	return 0, nil
}

func castToInt(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

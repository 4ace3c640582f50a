package limiter

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// INCR, and set the expiry only when this call created the key.
const incrementLua = `
local current = redis.call("INCR", KEYS[1])
if tonumber(current) == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// RedisCounter is the distributed counter shared by every instance.
type RedisCounter struct {
	source ClientSource
	script *goredis.Script
}

func NewRedisCounter(source ClientSource) *RedisCounter {
	return &RedisCounter{
		source: source,
		script: goredis.NewScript(incrementLua),
	}
}

func (c *RedisCounter) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if c.source == nil {
		return Decision{}, ErrBackendUnavailable
	}
	client := c.source.Client(ctx)
	if client == nil {
		return Decision{}, ErrBackendUnavailable
	}

	expiry := int64(ExpiryFor(window) / time.Second)
	count, err := c.script.Run(ctx, client, []string{key}, expiry).Int64()
	if err != nil {
		return Decision{}, ErrBackendUnavailable.Wrap(err)
	}
	return Decision{Allowed: count <= int64(limit), Count: count}, nil
}

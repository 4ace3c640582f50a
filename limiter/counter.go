// Package limiter counts requests per fixed time window and maps paths and identities
// to per-minute ceilings.
package limiter

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Decision is the outcome of one increment. Allowed is Count <= limit.
type Decision struct {
	Allowed bool
	Count   int64
}

// Counter atomically increments the counter for key in the current window.
type Counter interface {
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// ClientSource hands out the shared Redis client, or nil while Redis is unavailable.
type ClientSource interface {
	Client(ctx context.Context) *goredis.Client
	Connected() bool
}

// ExpiryFor is the TTL put on a fresh Redis counter: the window plus a quarter of it,
// capped at one minute of slack (75s for a minute window, 3660s for an hour).
func ExpiryFor(window time.Duration) time.Duration {
	return window + min(window/4, time.Minute)
}

// WindowIndex returns floor(now / window).
func WindowIndex(now time.Time, window time.Duration) int64 {
	return now.Unix() / int64(window/time.Second)
}

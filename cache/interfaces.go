// Package cache is the response cache that shields the third-party APIs: a Redis store
// with a bounded in-process fallback, plus a memoizing policy layer on top.
package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store is a byte-level TTL store.
type Store interface {
	Name() string

	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete of a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Serializer converts values to and from their stored form.
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte, v any) error
	Name() string
}

// ClientSource hands out the shared Redis client, or nil while Redis is unavailable.
// Implemented by redis.Manager.
type ClientSource interface {
	Client(ctx context.Context) *goredis.Client
	Connected() bool
}

// Stats counts policy-layer outcomes.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

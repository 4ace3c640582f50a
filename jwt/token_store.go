package jwt

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenStore is the revoked-token blacklist, keyed by token id (jti).
type TokenStore interface {
	IsBlacklisted(ctx context.Context, id string) (bool, error)

	// AddToBlacklist keeps id for ttl, normally the token's remaining lifetime.
	AddToBlacklist(ctx context.Context, id string, ttl time.Duration) error

	Close() error
}

// ClientSource yields the shared Redis client, or nil while Redis is unreachable.
type ClientSource interface {
	Client(ctx context.Context) *goredis.Client
	Connected() bool
}

package jwt

import (
	"context"
	"time"
)

// RedisTokenStore keeps revoked ids in Redis with SET EX so they expire with the token.
type RedisTokenStore struct {
	source    ClientSource
	keyPrefix string
}

func NewRedisTokenStore(source ClientSource, keyPrefix string) *RedisTokenStore {
	return &RedisTokenStore{source: source, keyPrefix: keyPrefix}
}

func (s *RedisTokenStore) IsBlacklisted(ctx context.Context, id string) (bool, error) {
	client := s.source.Client(ctx)
	if client == nil {
		return false, ErrBlacklist
	}
	n, err := client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, ErrBlacklist.Wrap(err)
	}
	return n > 0, nil
}

func (s *RedisTokenStore) AddToBlacklist(ctx context.Context, id string, ttl time.Duration) error {
	client := s.source.Client(ctx)
	if client == nil {
		return ErrBlacklist
	}
	if err := client.Set(ctx, s.key(id), "1", ttl).Err(); err != nil {
		return ErrBlacklist.Wrap(err)
	}
	return nil
}

// Close is a no-op; the Redis manager owns the client.
func (s *RedisTokenStore) Close() error { return nil }

func (s *RedisTokenStore) key(id string) string {
	return s.keyPrefix + "token:" + id
}

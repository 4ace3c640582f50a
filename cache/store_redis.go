package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore maps the Store contract onto GET / SETEX / DEL.
type RedisStore struct {
	source    ClientSource
	keyPrefix string
}

func NewRedisStore(source ClientSource, keyPrefix string) *RedisStore {
	return &RedisStore{source: source, keyPrefix: keyPrefix}
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) client(ctx context.Context) (*goredis.Client, error) {
	if s.source == nil {
		return nil, ErrStoreUnavailable
	}
	c := s.source.Client(ctx)
	if c == nil {
		return nil, ErrStoreUnavailable
	}
	return c, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, ErrStoreGet.Wrap(err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	// A non-positive TTL is already expired; drop any older value instead of writing.
	if ttl <= 0 {
		if err := c.Del(ctx, s.keyPrefix+key).Err(); err != nil {
			return ErrStoreSet.Wrap(err)
		}
		return nil
	}
	// go-redis sends PX for sub-second durations and EX otherwise.
	if err := c.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return ErrStoreSet.Wrap(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	if err := c.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return ErrStoreDelete.Wrap(err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner.
func (s *RedisStore) Close() error {
	return nil
}

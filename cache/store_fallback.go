package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// FallbackStore tries Redis first and answers from the in-process store whenever Redis
// is unavailable or fails. Only one backend is consulted per read. Backend errors are
// logged and never returned: reads degrade to a miss, writes to a no-op.
type FallbackStore struct {
	primary    Store
	fallback   *MemoryStore
	serializer Serializer
	source     ClientSource
	logger     *logger.CtxZapLogger

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// NewFallbackStore builds the store. source may be nil, in which case only memory is used.
func NewFallbackStore(cfg Config, source ClientSource, log *logger.CtxZapLogger) *FallbackStore {
	cfg.ApplyDefaults()
	s := &FallbackStore{
		fallback:   NewMemoryStore("memory", cfg.MaxMemoryEntries),
		serializer: NewJSONSerializer(),
		source:     source,
		logger:     log,
	}
	if source != nil {
		s.primary = NewRedisStore(source, cfg.KeyPrefix)
	}
	return s
}

func (s *FallbackStore) Name() string {
	return "fallback"
}

// Connected reports whether Redis answered its last probe.
func (s *FallbackStore) Connected() bool {
	return s.source != nil && s.source.Connected()
}

func (s *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.primary != nil {
		data, err := s.primary.Get(ctx, key)
		switch {
		case err == nil:
			return data, nil
		case errors.Is(err, ErrCacheMiss):
			return nil, ErrCacheMiss
		case !errors.Is(err, ErrStoreUnavailable):
			s.errors.Add(1)
			s.logger.WarnCtx(ctx, "Cache get error", zap.String("key", key), zap.Error(err))
		}
	}
	return s.fallback.Get(ctx, key)
}

func (s *FallbackStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.primary != nil {
		err := s.primary.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStoreUnavailable) {
			s.errors.Add(1)
			s.logger.WarnCtx(ctx, "Cache set error", zap.String("key", key), zap.Error(err))
		}
	}
	return s.fallback.Set(ctx, key, value, ttl)
}

// Delete removes key from both backends.
func (s *FallbackStore) Delete(ctx context.Context, key string) error {
	if s.primary != nil {
		if err := s.primary.Delete(ctx, key); err != nil && !errors.Is(err, ErrStoreUnavailable) {
			s.errors.Add(1)
			s.logger.WarnCtx(ctx, "Cache delete error", zap.String("key", key), zap.Error(err))
		}
	}
	return s.fallback.Delete(ctx, key)
}

// GetJSON decodes the cached value into dest and reports whether it was a hit. An
// undecodable value counts as a miss.
func (s *FallbackStore) GetJSON(ctx context.Context, key string, dest any) bool {
	data, err := s.Get(ctx, key)
	if err != nil {
		s.misses.Add(1)
		return false
	}
	if err := s.serializer.Deserialize(data, dest); err != nil {
		s.misses.Add(1)
		s.errors.Add(1)
		s.logger.WarnCtx(ctx, "Cache get error", zap.String("key", key), zap.Error(err))
		return false
	}
	s.hits.Add(1)
	return true
}

// SetJSON encodes v and stores it with ttl.
func (s *FallbackStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := s.serializer.Serialize(v)
	if err != nil {
		s.errors.Add(1)
		s.logger.WarnCtx(ctx, "Cache set error", zap.String("key", key), zap.Error(err))
		return
	}
	_ = s.Set(ctx, key, data, ttl)
}

// Stats returns a snapshot of the JSON-level counters.
func (s *FallbackStore) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Errors: s.errors.Load(),
	}
}

// Close clears the in-process entries. The Redis client belongs to its manager.
func (s *FallbackStore) Close() error {
	return s.fallback.Close()
}

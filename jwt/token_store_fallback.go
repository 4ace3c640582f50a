package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// FallbackTokenStore writes every revocation to memory and, when reachable, to Redis.
// Lookups consult memory first so a revocation is honoured by this process even while
// Redis is down.
type FallbackTokenStore struct {
	redis  *RedisTokenStore
	memory *MemoryTokenStore
	logger *logger.CtxZapLogger
}

// NewFallbackTokenStore builds the store. source may be nil for memory-only operation.
func NewFallbackTokenStore(cfg BlacklistConfig, source ClientSource, log *logger.CtxZapLogger) *FallbackTokenStore {
	s := &FallbackTokenStore{
		memory: NewMemoryTokenStore(cfg.CleanupInterval, log),
		logger: log,
	}
	if source != nil {
		s.redis = NewRedisTokenStore(source, cfg.KeyPrefix)
	}
	return s
}

func (s *FallbackTokenStore) IsBlacklisted(ctx context.Context, id string) (bool, error) {
	if ok, _ := s.memory.IsBlacklisted(ctx, id); ok {
		return true, nil
	}
	if s.redis == nil {
		return false, nil
	}
	ok, err := s.redis.IsBlacklisted(ctx, id)
	if err != nil {
		if errors.Unwrap(err) != nil {
			s.logger.WarnCtx(ctx, "Redis blacklist lookup failed, using memory only", zap.Error(err))
		}
		return false, nil
	}
	return ok, nil
}

func (s *FallbackTokenStore) AddToBlacklist(ctx context.Context, id string, ttl time.Duration) error {
	_ = s.memory.AddToBlacklist(ctx, id, ttl)
	if s.redis == nil {
		return nil
	}
	if err := s.redis.AddToBlacklist(ctx, id, ttl); err != nil && errors.Unwrap(err) != nil {
		s.logger.WarnCtx(ctx, "Redis blacklist write failed, revocation is local only", zap.Error(err))
	}
	return nil
}

// Close stops the memory cleanup loop.
func (s *FallbackTokenStore) Close() error {
	return s.memory.Close()
}

// Shutdown implements do.Shutdowner.
func (s *FallbackTokenStore) Shutdown() error {
	return s.Close()
}

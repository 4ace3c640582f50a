package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// FallbackCounter counts in Redis when it is reachable and in process memory otherwise.
// A Redis failure moves only the current call to memory; there is no retry.
type FallbackCounter struct {
	redis  *RedisCounter
	memory *MemoryCounter
	source ClientSource
	logger *logger.CtxZapLogger
}

// NewFallbackCounter builds the counter. source may be nil for memory-only operation.
func NewFallbackCounter(cfg Config, source ClientSource, log *logger.CtxZapLogger) *FallbackCounter {
	cfg.ApplyDefaults()
	c := &FallbackCounter{
		memory: NewMemoryCounter(cfg.StaleAfter),
		source: source,
		logger: log,
	}
	if source != nil {
		c.redis = NewRedisCounter(source)
	}
	return c
}

func (c *FallbackCounter) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if c.redis != nil {
		d, err := c.redis.IncrementAndCheck(ctx, key, limit, window)
		if err == nil {
			return d, nil
		}
		// a bare ErrBackendUnavailable means Redis is known to be down
		if errors.Unwrap(err) != nil {
			c.logger.ErrorCtx(ctx, "Redis rate limit error, using in-memory counter",
				zap.String("key", key), zap.Error(err))
		}
	}
	return c.memory.IncrementAndCheck(ctx, key, limit, window)
}

// Distributed reports whether counting currently happens in Redis.
func (c *FallbackCounter) Distributed() bool {
	return c.source != nil && c.source.Connected()
}

// Sweep garbage-collects stale in-memory windows.
func (c *FallbackCounter) Sweep(now time.Time) int {
	removed := c.memory.Sweep(now)
	if removed > 0 {
		c.logger.Debug("Swept stale rate limit windows", zap.Int("removed", removed))
	}
	return removed
}

// Shutdown runs a final sweep. Implements do.Shutdowner.
func (c *FallbackCounter) Shutdown() {
	c.Sweep(time.Now())
}

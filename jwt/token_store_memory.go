package jwt

import (
	"context"
	"sync"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// MemoryTokenStore keeps revoked ids in process memory with a periodic cleanup.
type MemoryTokenStore struct {
	blacklist sync.Map // id -> expiry time.Time
	logger    *logger.CtxZapLogger
	now       func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMemoryTokenStore starts the cleanup loop when cleanupInterval > 0.
func NewMemoryTokenStore(cleanupInterval time.Duration, log *logger.CtxZapLogger) *MemoryTokenStore {
	s := &MemoryTokenStore{
		logger: log,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanup(cleanupInterval)
	}
	return s
}

func (s *MemoryTokenStore) IsBlacklisted(_ context.Context, id string) (bool, error) {
	value, ok := s.blacklist.Load(id)
	if !ok {
		return false, nil
	}
	if s.now().After(value.(time.Time)) {
		s.blacklist.Delete(id)
		return false, nil
	}
	return true, nil
}

func (s *MemoryTokenStore) AddToBlacklist(ctx context.Context, id string, ttl time.Duration) error {
	s.blacklist.Store(id, s.now().Add(ttl))
	s.logger.DebugCtx(ctx, "token added to memory blacklist",
		zap.String("jti", id),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func (s *MemoryTokenStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	return nil
}

func (s *MemoryTokenStore) cleanup(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeExpired()
		case <-s.stopCh:
			return
		}
	}
}

// purgeExpired returns the number of entries removed.
func (s *MemoryTokenStore) purgeExpired() int {
	now := s.now()
	count := 0
	s.blacklist.Range(func(key, value any) bool {
		if now.After(value.(time.Time)) {
			s.blacklist.Delete(key)
			count++
		}
		return true
	})
	if count > 0 {
		s.logger.Debug("cleaned up expired blacklist entries", zap.Int("count", count))
	}
	return count
}

package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// Manager owns the shared client and tracks whether Redis answered the last probe.
//
// The client is created eagerly but never pinged at construction. The first call to
// Client probes; a failed probe is retried at most once per ProbeInterval, and between
// retries Client returns nil so callers go straight to their fallback.
type Manager struct {
	client *redis.Client
	cfg    Config
	logger *logger.CtxZapLogger

	mu        sync.Mutex
	probed    bool
	lastProbe time.Time
	connected atomic.Bool
	closed    atomic.Bool

	now func() time.Time
}

// NewManager builds a client from cfg. When cfg.Enabled is false the manager has no
// client and every consumer runs in-memory.
func NewManager(cfg Config, log *logger.CtxZapLogger) *Manager {
	cfg.ApplyDefaults()
	m := &Manager{cfg: cfg, logger: log, now: time.Now}
	if cfg.Enabled {
		m.client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			MaxRetries:   -1,
		})
	}
	return m
}

// NewManagerWithClient wraps an existing client.
func NewManagerWithClient(client *redis.Client, cfg Config, log *logger.CtxZapLogger) *Manager {
	cfg.ApplyDefaults()
	return &Manager{client: client, cfg: cfg, logger: log, now: time.Now}
}

// Client returns the shared client when Redis is reachable, probing lazily. It returns
// nil when Redis is disabled, closed, or failed its last probe within ProbeInterval.
func (m *Manager) Client(ctx context.Context) *redis.Client {
	if m.client == nil || m.closed.Load() {
		return nil
	}
	if m.connected.Load() {
		return m.client
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected.Load() {
		return m.client
	}
	if m.probed && m.now().Sub(m.lastProbe) < m.cfg.ProbeInterval {
		return nil
	}
	if m.probeLocked(ctx) {
		return m.client
	}
	return nil
}

// Probe pings Redis immediately and records the result.
func (m *Manager) Probe(ctx context.Context) bool {
	if m.client == nil || m.closed.Load() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeLocked(ctx)
}

func (m *Manager) probeLocked(ctx context.Context) bool {
	m.probed = true
	m.lastProbe = m.now()

	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.DialTimeout)
	defer cancel()
	if err := m.client.Ping(pingCtx).Err(); err != nil {
		m.connected.Store(false)
		m.logger.WarnCtx(ctx, "Redis connection failed, using in-memory fallback",
			zap.String("addr", m.cfg.Addr()), zap.Error(err))
		return false
	}
	if !m.connected.Swap(true) {
		m.logger.InfoCtx(ctx, "Connected to Redis", zap.String("addr", m.cfg.Addr()))
	}
	return true
}

// Connected reports the result of the most recent probe.
func (m *Manager) Connected() bool {
	return m.connected.Load()
}

// Close releases the client. Subsequent Client calls return nil.
func (m *Manager) Close() error {
	if m.client == nil || m.closed.Swap(true) {
		return nil
	}
	m.connected.Store(false)
	if err := m.client.Close(); err != nil {
		m.logger.Error("failed to close Redis connection", zap.Error(err))
		return err
	}
	m.logger.Debug("Redis connection closed")
	return nil
}

// Shutdown implements do.ShutdownerWithError.
func (m *Manager) Shutdown() error {
	return m.Close()
}

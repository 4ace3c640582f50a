// Package di registers the service graph on a samber/do injector.
//
// Every component is lazy: nothing is built until something invokes it, and
// injector.Shutdown tears the built ones down in reverse order.
package di

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/cache"
	"github.com/snacktrack/snacktrack-api/config"
	"github.com/snacktrack/snacktrack-api/health"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider/spoonacular"
	"github.com/snacktrack/snacktrack-api/provider/usda"
	"github.com/snacktrack/snacktrack-api/redis"
	"github.com/snacktrack/snacktrack-api/telemetry"
	"go.uber.org/zap"
)

// Injector aliases the do injector so callers need not import it.
type Injector = do.Injector

// New creates a root scope with every provider registered.
func New(s *config.Settings) *do.RootScope {
	injector := do.New()
	RegisterProviders(injector, s)
	return injector
}

// RegisterProviders binds the settings and every component provider.
func RegisterProviders(i do.Injector, s *config.Settings) {
	do.ProvideValue(i, s)

	do.Provide(i, ProvideLoggerManager)
	do.Provide(i, ProvideRedisManager)
	do.Provide(i, ProvideCounter)
	do.Provide(i, ProvidePolicy)
	do.Provide(i, ProvideCacheStore)
	do.Provide(i, ProvideTokenStore)
	do.Provide(i, ProvideTokenManager)
	do.Provide(i, ProvideAuthService)
	do.Provide(i, ProvideUSDA)
	do.Provide(i, ProvideSpoonacular)
	do.Provide(i, ProvideHealthAggregator)
	do.Provide(i, ProvideTelemetry)
	do.Provide(i, ProvideWorkerPool)
}

// redisSource is satisfied by *redis.Manager and converts to each package's ClientSource.
type redisSource interface {
	Client(ctx context.Context) *goredis.Client
	Connected() bool
}

// sourceOf returns nil when Redis is disabled so consumers stay memory-only.
func sourceOf(i do.Injector) (redisSource, error) {
	s := do.MustInvoke[*config.Settings](i)
	if !s.Redis.Enabled {
		return nil, nil
	}
	mgr, err := do.Invoke[*redis.Manager](i)
	if err != nil {
		return nil, err
	}
	return mgr, nil
}

// ProvideLoggerManager installs the configured global logger manager.
func ProvideLoggerManager(i do.Injector) (*logger.Manager, error) {
	s := do.MustInvoke[*config.Settings](i)
	logger.InitManager(s.Logger)
	return logger.Default(), nil
}

func moduleLogger(i do.Injector, module string) *logger.CtxZapLogger {
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return logger.GetLogger(module)
	}
	return mgr.GetLogger(module)
}

// ProvideRedisManager builds the shared client holder. Connection is probed lazily.
func ProvideRedisManager(i do.Injector) (*redis.Manager, error) {
	s := do.MustInvoke[*config.Settings](i)
	return redis.NewManager(s.Redis, moduleLogger(i, "redis")), nil
}

// ProvideCounter builds the rate-limit counter with its in-memory fallback.
func ProvideCounter(i do.Injector) (*limiter.FallbackCounter, error) {
	s := do.MustInvoke[*config.Settings](i)
	src, err := sourceOf(i)
	if err != nil {
		return nil, err
	}
	var source limiter.ClientSource
	if src != nil {
		source = src
	}
	return limiter.NewFallbackCounter(s.RateLimit, source, moduleLogger(i, "rate_limit")), nil
}

func ProvidePolicy(i do.Injector) (*limiter.Policy, error) {
	s := do.MustInvoke[*config.Settings](i)
	return limiter.NewPolicy(s.RateLimit), nil
}

// ProvideCacheStore builds the provider response cache.
func ProvideCacheStore(i do.Injector) (*cache.FallbackStore, error) {
	s := do.MustInvoke[*config.Settings](i)
	src, err := sourceOf(i)
	if err != nil {
		return nil, err
	}
	var source cache.ClientSource
	if src != nil {
		source = src
	}
	return cache.NewFallbackStore(s.Cache, source, moduleLogger(i, "cache")), nil
}

// ProvideTokenStore builds the revoked-token blacklist.
func ProvideTokenStore(i do.Injector) (*jwt.FallbackTokenStore, error) {
	s := do.MustInvoke[*config.Settings](i)
	src, err := sourceOf(i)
	if err != nil {
		return nil, err
	}
	var source jwt.ClientSource
	if src != nil {
		source = src
	}
	return jwt.NewFallbackTokenStore(s.JWT.Blacklist, source, moduleLogger(i, "jwt")), nil
}

func ProvideTokenManager(i do.Injector) (*jwt.TokenManager, error) {
	s := do.MustInvoke[*config.Settings](i)
	store, err := do.Invoke[*jwt.FallbackTokenStore](i)
	if err != nil {
		return nil, err
	}
	return jwt.NewTokenManager(s.JWT, store, moduleLogger(i, "jwt"))
}

// ProvideAuthService builds the account service and seeds the demo user when enabled.
func ProvideAuthService(i do.Injector) (*auth.Service, error) {
	s := do.MustInvoke[*config.Settings](i)
	tokens, err := do.Invoke[*jwt.TokenManager](i)
	if err != nil {
		return nil, err
	}
	svc := auth.NewService(auth.NewUserStore(), auth.NewPasswordService(s.Auth.BcryptCost), tokens, moduleLogger(i, "auth"))
	if s.Auth.SeedDemoUser {
		if err := svc.Seed(context.Background()); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// ProvideUSDA builds the FoodData Central client. Its quota shares the rate-limit counter.
func ProvideUSDA(i do.Injector) (*usda.Client, error) {
	s := do.MustInvoke[*config.Settings](i)
	counter, err := do.Invoke[*limiter.FallbackCounter](i)
	if err != nil {
		return nil, err
	}
	store, err := do.Invoke[*cache.FallbackStore](i)
	if err != nil {
		return nil, err
	}
	return usda.NewClient(s.USDA, counter, store, moduleLogger(i, "usda")), nil
}

func ProvideSpoonacular(i do.Injector) (*spoonacular.Client, error) {
	s := do.MustInvoke[*config.Settings](i)
	store, err := do.Invoke[*cache.FallbackStore](i)
	if err != nil {
		return nil, err
	}
	return spoonacular.NewClient(s.Spoonacular, store, moduleLogger(i, "spoonacular")), nil
}

// ProvideHealthAggregator registers Redis as an optional readiness check and reports the
// provider cache counters.
func ProvideHealthAggregator(i do.Injector) (*health.Aggregator, error) {
	s := do.MustInvoke[*config.Settings](i)
	agg := health.NewAggregator(s.Health.Timeout)
	store, err := do.Invoke[*cache.FallbackStore](i)
	if err != nil {
		return nil, err
	}
	agg.Report("cache", func() any { return store.Stats() })
	if s.Redis.Enabled {
		mgr, err := do.Invoke[*redis.Manager](i)
		if err != nil {
			return nil, err
		}
		agg.RegisterOptional(redis.NewHealthChecker(mgr))
	}
	return agg, nil
}

// ProvideTelemetry builds and starts the tracer provider. Disabled telemetry is a no-op.
func ProvideTelemetry(i do.Injector) (*telemetry.Manager, error) {
	s := do.MustInvoke[*config.Settings](i)
	mgr := telemetry.NewManager(s.Telemetry, moduleLogger(i, "telemetry"))
	if err := mgr.Start(context.Background()); err != nil {
		return nil, err
	}
	return mgr, nil
}

// WorkerPool runs batched provider lookups.
type WorkerPool struct {
	*ants.Pool
}

// Shutdown waits briefly for running lookups before releasing the workers.
func (p *WorkerPool) Shutdown() error {
	return p.ReleaseTimeout(5 * time.Second)
}

func ProvideWorkerPool(i do.Injector) (*WorkerPool, error) {
	s := do.MustInvoke[*config.Settings](i)
	log := moduleLogger(i, "worker")
	pool, err := ants.NewPool(s.Worker.PoolSize,
		ants.WithPanicHandler(func(p any) {
			log.ErrorCtx(context.Background(), "worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, err
	}
	return &WorkerPool{Pool: pool}, nil
}

// Package application assembles the service graph and runs the HTTP server until a
// shutdown signal arrives.
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/config"
	"github.com/snacktrack/snacktrack-api/di"
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

// AppState is the lifecycle stage of an Application.
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Application owns the injector. Components are built on first use and shut down in
// reverse dependency order.
type Application struct {
	settings *config.Settings
	injector *do.RootScope
	logger   *logger.CtxZapLogger

	ctx    context.Context
	cancel context.CancelFunc
	state  AppState
	mu     sync.RWMutex

	startedAt time.Time
}

// New wires an application from already loaded settings.
func New(settings *config.Settings) *Application {
	ctx, cancel := context.WithCancel(context.Background())
	injector := di.New(settings)
	do.Provide(injector, provideScheduler)
	do.Provide(injector, provideHTTPServer)

	mgr := do.MustInvoke[*logger.Manager](injector)
	return &Application{
		settings: settings,
		injector: injector,
		logger:   mgr.GetLogger("app"),
		ctx:      ctx,
		cancel:   cancel,
		state:    StateInit,
	}
}

// NewFromPath loads configPath/config.yaml plus environment overrides.
func NewFromPath(configPath string) (*Application, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return New(settings), nil
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	if err := a.RunNonBlocking(); err != nil {
		a.gracefulShutdown()
		return err
	}
	a.WaitShutdown()
	a.gracefulShutdown()
	return nil
}

// RunNonBlocking builds every component, starts the sweep job and the HTTP server,
// then returns.
func (a *Application) RunNonBlocking() error {
	a.setState(StateSetup)

	a.logRedisMode()

	if _, err := do.Invoke[*auth.Service](a.injector); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	scheduler, err := do.Invoke[*Scheduler](a.injector)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	scheduler.Start()

	server, err := do.Invoke[*HTTPServer](a.injector)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	if err := server.Start(); err != nil {
		return err
	}

	a.startedAt = time.Now()
	a.setState(StateRunning)
	a.logger.InfoCtx(a.ctx, "SnackTrack API started",
		zap.String("name", a.settings.App.Name),
		zap.String("version", a.settings.App.Version),
		zap.String("env", a.settings.App.Env),
		zap.String("addr", server.Addr()))
	return nil
}

// logRedisMode probes Redis once so the first request does not pay for it.
func (a *Application) logRedisMode() {
	mgr := do.MustInvoke[*redis.Manager](a.injector)
	if a.settings.Redis.Enabled && mgr.Probe(a.ctx) {
		a.logger.InfoCtx(a.ctx, "Redis connected - using distributed rate limiting")
		return
	}
	a.logger.InfoCtx(a.ctx, "Redis not available - using in-memory rate limiting")
}

// WaitShutdown blocks until a signal or Stop. A second signal exits immediately.
func (a *Application) WaitShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		a.logger.InfoCtx(a.ctx, "Shutdown signal received", zap.String("signal", sig.String()))
		a.cancel()
		go func() {
			sig := <-quit
			a.logger.Warn("Second signal received, forcing exit", zap.String("signal", sig.String()))
			os.Exit(1)
		}()
	case <-a.ctx.Done():
		signal.Stop(quit)
		a.logger.Debug("Context cancelled, starting graceful shutdown")
	}
}

// Stop cancels the root context so WaitShutdown returns.
func (a *Application) Stop() {
	a.cancel()
}

// Shutdown stops everything RunNonBlocking started.
func (a *Application) Shutdown() {
	a.cancel()
	a.gracefulShutdown()
}

func (a *Application) gracefulShutdown() {
	a.setState(StateStopping)
	a.logger.Debug("Starting graceful shutdown...")

	if report := a.injector.Shutdown(); report != nil && !report.Succeed {
		a.logger.Error("DI container shutdown failed", zap.Error(report))
	}

	a.setState(StateStopped)
}

func (a *Application) Injector() *do.RootScope {
	return a.injector
}

func (a *Application) Settings() *config.Settings {
	return a.settings
}

// Context is cancelled when shutdown begins.
func (a *Application) Context() context.Context {
	return a.ctx
}

// Uptime is zero until the application is running.
func (a *Application) Uptime() time.Duration {
	if a.GetState() != StateRunning {
		return 0
	}
	return time.Since(a.startedAt)
}

func (a *Application) GetState() AppState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Application) setState(state AppState) {
	a.mu.Lock()
	defer a.mu.Unlock()

	old := a.state
	a.state = state
	a.logger.Debug("State changed",
		zap.String("from", old.String()),
		zap.String("to", state.String()))
}

func provideScheduler(i do.Injector) (*Scheduler, error) {
	s := do.MustInvoke[*config.Settings](i)
	counter, err := do.Invoke[*limiter.FallbackCounter](i)
	if err != nil {
		return nil, err
	}
	return NewScheduler(s.Scheduler.SweepInterval, counter, logger.GetLogger("scheduler"))
}

func provideHTTPServer(i do.Injector) (*HTTPServer, error) {
	s := do.MustInvoke[*config.Settings](i)
	c := Components{
		Policy: do.MustInvoke[*limiter.Policy](i),
		Logger: logger.GetLogger("api"),
	}

	counter, err := do.Invoke[*limiter.FallbackCounter](i)
	if err != nil {
		return nil, err
	}
	c.Counter = counter
	if c.Tokens, err = do.Invoke[*jwt.TokenManager](i); err != nil {
		return nil, err
	}
	if c.Auth, err = do.Invoke[*auth.Service](i); err != nil {
		return nil, err
	}
	foods, err := do.Invoke[*usda.Client](i)
	if err != nil {
		return nil, err
	}
	c.Foods = foods
	recipes, err := do.Invoke[*spoonacular.Client](i)
	if err != nil {
		return nil, err
	}
	c.Recipes = recipes
	pool, err := do.Invoke[*di.WorkerPool](i)
	if err != nil {
		return nil, err
	}
	c.Pool = pool.Pool
	if c.Health, err = do.Invoke[*health.Aggregator](i); err != nil {
		return nil, err
	}
	redisMgr, err := do.Invoke[*redis.Manager](i)
	if err != nil {
		return nil, err
	}
	c.Redis = redisMgr
	if c.Telemetry, err = do.Invoke[*telemetry.Manager](i); err != nil {
		return nil, err
	}

	return NewHTTPServer(s, c), nil
}

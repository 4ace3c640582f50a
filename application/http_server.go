package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/snacktrack/snacktrack-api/api"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/config"
	"github.com/snacktrack/snacktrack-api/health"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/middleware"
	"github.com/snacktrack/snacktrack-api/telemetry"
	"go.uber.org/zap"
)

// Components are the services the HTTP engine is built from.
type Components struct {
	Counter   middleware.Counter
	Policy    *limiter.Policy
	Tokens    *jwt.TokenManager
	Auth      *auth.Service
	Foods     api.FoodProvider
	Recipes   api.RecipeProvider
	Pool      *ants.Pool
	Health    *health.Aggregator
	Redis     middleware.ConnectionState
	Telemetry *telemetry.Manager
	Logger    *logger.CtxZapLogger
}

// HTTPServer wraps the gin engine and its http.Server.
type HTTPServer struct {
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
	cfg      config.ServerConfig
	logger   *logger.CtxZapLogger
}

// NewEngine builds the gin engine with the middleware chain and every route.
func NewEngine(s *config.Settings, c Components) *gin.Engine {
	gin.DefaultWriter = logger.NewGinLogWriter("gin")
	gin.DefaultErrorWriter = logger.NewGinLogWriter("gin")
	gin.SetMode(s.Server.Mode)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.Recovery(logger.GetLogger("gin-error")))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig(s.CORS.Origins)))

	// otelgin must run first so TraceID picks up the span's trace id
	if c.Telemetry != nil && c.Telemetry.IsEnabled() {
		if mw := c.Telemetry.Middleware(); mw != nil {
			engine.Use(mw)
		}
	}
	engine.Use(middleware.TraceID())

	if s.Middleware.RequestLog.Enabled {
		engine.Use(middleware.RequestLog(middleware.RequestLogConfig{
			SkipPaths: s.Middleware.RequestLog.SkipPaths,
			Logger:    logger.GetLogger("http"),
		}))
	}
	if s.Httpx.Enable {
		engine.Use(httpx.ErrorLoggingMiddleware(s.Httpx))
	}

	var tokens middleware.TokenVerifier
	if c.Tokens != nil {
		tokens = c.Tokens
		engine.Use(middleware.Authenticate(tokens))
	}
	engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Counter: c.Counter,
		Policy:  c.Policy,
		Tokens:  tokens,
		Logger:  logger.GetLogger("rate_limit"),
	}))

	middleware.RegisterHealthRoutes(engine,
		middleware.NewHealthHandler(s.App.Name, s.App.Version, c.Redis, c.Health))

	api.Register(engine, api.Deps{
		Auth:    c.Auth,
		Foods:   c.Foods,
		Recipes: c.Recipes,
		Pool:    c.Pool,
		Logger:  c.Logger,
	})

	engine.NoRoute(httpx.NoRouteHandler())
	engine.NoMethod(httpx.NoMethodHandler())
	return engine
}

func NewHTTPServer(s *config.Settings, c Components) *HTTPServer {
	return &HTTPServer{
		engine: NewEngine(s, c),
		cfg:    s.Server,
		logger: logger.GetLogger("http"),
	}
}

// Engine returns the gin engine, mainly for tests.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Addr is the bound address once Start returned, else the configured one.
func (s *HTTPServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr()
}

// Start binds the port and serves in the background. It returns once the server
// survived its first 50ms.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("port %d unavailable: %w", s.cfg.Port, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.logger.Error("HTTP server start failed", zap.Error(err))
		return fmt.Errorf("HTTP server start failed: %w", err)
	case <-time.After(50 * time.Millisecond):
		s.logger.Info("HTTP server started",
			zap.String("addr", s.Addr()),
			zap.String("mode", s.cfg.Mode))
		return nil
	}
}

// Shutdown drains in-flight requests within server.shutdown_timeout.
// Implements do.ShutdownerWithContextAndError.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Debug("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	s.logger.Debug("HTTP server closed")
	return nil
}

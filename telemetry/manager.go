// Package telemetry sets up the OpenTelemetry tracer provider and the gin tracing
// middleware.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Manager owns the tracer provider. A disabled Manager is inert.
type Manager struct {
	config         Config
	logger         *logger.CtxZapLogger
	writer         io.Writer
	tracerProvider *trace.TracerProvider
}

func NewManager(cfg Config, log *logger.CtxZapLogger) *Manager {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetLogger("telemetry")
	}
	return &Manager{config: cfg, logger: log, writer: os.Stdout}
}

// Start installs the global tracer provider and propagator.
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.InfoCtx(ctx, "Telemetry disabled, skipping initialization")
		return nil
	}

	tp, err := newTracerProvider(ctx, m.config, m.writer)
	if err != nil {
		return err
	}
	m.tracerProvider = tp
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	m.logger.InfoCtx(ctx, "Telemetry started",
		zap.String("service_name", m.config.ServiceName),
		zap.String("exporter", m.config.Exporter.Type),
	)
	return nil
}

// Shutdown flushes pending spans.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.tracerProvider == nil {
		return nil
	}
	if err := m.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider failed: %w", err)
	}
	return nil
}

func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if m.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// Middleware returns the otelgin handler, or nil when tracing is off.
func (m *Manager) Middleware() gin.HandlerFunc {
	if m.tracerProvider == nil {
		return nil
	}
	return otelgin.Middleware(m.config.ServiceName, otelgin.WithTracerProvider(m.tracerProvider))
}

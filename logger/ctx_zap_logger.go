package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

// TraceIDKey is the context key the trace middleware stores request ids under.
const TraceIDKey ctxKey = "trace_id"

// ContextWithTraceID returns a child context carrying traceID.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// CtxZapLogger is a module-bound zap logger that enriches entries from context.
type CtxZapLogger struct {
	base   *zap.Logger
	module string
	config *ManagerConfig
}

// NewCtxZapLogger wraps an existing core. Used by tests and by callers that build
// their own zap pipeline.
func NewCtxZapLogger(module string, core zapcore.Core, cfg ManagerConfig) *CtxZapLogger {
	cfg.ApplyDefaults()
	return &CtxZapLogger{
		base:   zap.New(core).With(zap.String("module", module)),
		module: module,
		config: &cfg,
	}
}

// Nop discards everything.
func Nop() *CtxZapLogger {
	return &CtxZapLogger{base: zap.NewNop(), module: "nop"}
}

func (l *CtxZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrichFields(ctx, fields)...)
}

func (l *CtxZapLogger) Info(msg string, fields ...zap.Field) {
	l.InfoCtx(context.Background(), msg, fields...)
}

// ErrorCtx also attaches a depth-limited stack when stack traces are enabled.
func (l *CtxZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	enriched := l.enrichFields(ctx, fields)
	if l.config != nil && l.config.EnableStacktrace {
		// skip runtime.Callers, CaptureStacktrace and ErrorCtx
		if stack := CaptureStacktrace(3, l.config.StacktraceDepth); stack != "" {
			enriched = append(enriched, zap.String("stack", stack))
		}
	}
	l.base.Error(msg, enriched...)
}

func (l *CtxZapLogger) Error(msg string, fields ...zap.Field) {
	l.ErrorCtx(context.Background(), msg, fields...)
}

func (l *CtxZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Debug(msg, l.enrichFields(ctx, fields)...)
}

func (l *CtxZapLogger) Debug(msg string, fields ...zap.Field) {
	l.DebugCtx(context.Background(), msg, fields...)
}

func (l *CtxZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrichFields(ctx, fields)...)
}

func (l *CtxZapLogger) Warn(msg string, fields ...zap.Field) {
	l.WarnCtx(context.Background(), msg, fields...)
}

// With returns a child logger with preset fields.
func (l *CtxZapLogger) With(fields ...zap.Field) *CtxZapLogger {
	return &CtxZapLogger{
		base:   l.base.With(fields...),
		module: l.module,
		config: l.config,
	}
}

// Module returns the bound module name.
func (l *CtxZapLogger) Module() string { return l.module }

// GetZapLogger exposes the underlying logger for third-party integrations.
func (l *CtxZapLogger) GetZapLogger() *zap.Logger {
	return l.base
}

func (l *CtxZapLogger) enrichFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if l.config == nil {
		return fields
	}
	enriched := make([]zap.Field, 0, len(fields)+2)
	enriched = append(enriched, zap.String("app_name", l.config.AppName))
	if l.config.EnableTraceID {
		if traceID := TraceIDFromContext(ctx); traceID != "" {
			enriched = append(enriched, zap.String("trace_id", traceID))
		}
	}
	return append(enriched, fields...)
}

// TraceIDFromContext prefers an active OpenTelemetry span over the request id set by
// the trace middleware.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

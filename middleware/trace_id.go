package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDKey    = "trace_id"
	TraceIDHeader = "X-Trace-ID"
)

// TraceID reuses X-Trace-ID from the request or generates a uuid, echoes it in the
// response and makes it available to context-aware loggers. When an OpenTelemetry span
// is active its trace id wins.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var traceID string
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		} else {
			traceID = c.GetHeader(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}
			c.Request = c.Request.WithContext(logger.ContextWithTraceID(c.Request.Context(), traceID))
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// GetTraceID returns the id set by TraceID.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// RequestLogConfig for RequestLog.
type RequestLogConfig struct {
	SkipPaths []string
	Logger    *logger.CtxZapLogger
}

// RequestLog writes one structured entry per request: error for 5xx, warn for 4xx,
// info otherwise.
func RequestLog(cfg RequestLogConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.GetLogger("http")
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ClientIP(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("body_size", c.Writer.Size()),
		}
		if id, ok := UserID(c); ok {
			fields = append(fields, zap.String("user_id", id))
		}
		if errMsg := c.Errors.ByType(gin.ErrorTypePrivate).String(); errMsg != "" {
			fields = append(fields, zap.String("error", errMsg))
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.ErrorCtx(ctx, "http request", fields...)
		case status >= 400:
			log.WarnCtx(ctx, "http request", fields...)
		default:
			log.InfoCtx(ctx, "http request", fields...)
		}
	}
}

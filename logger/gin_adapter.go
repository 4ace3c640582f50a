package logger

import (
	"strings"
)

// GinLogWriter routes gin's own text output (route table, recovery) into a module logger.
type GinLogWriter struct {
	log *CtxZapLogger
}

// NewGinLogWriter is assigned to gin.DefaultWriter and gin.DefaultErrorWriter.
func NewGinLogWriter(module string) *GinLogWriter {
	return &GinLogWriter{log: GetLogger(module)}
}

func (w *GinLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	switch {
	case strings.Contains(msg, "[GIN-debug]"):
		w.log.Debug(msg)
	case strings.Contains(msg, "[Recovery]"), strings.Contains(msg, "panic recovered"):
		w.log.Error(msg)
	case strings.Contains(msg, "[WARNING]"):
		w.log.Warn(msg)
	default:
		w.log.Info(msg)
	}
	return len(p), nil
}

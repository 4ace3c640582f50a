package logger

import (
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a debug-level logger that records entries in memory, plus the
// recorder for assertions.
func NewTestLogger(module string) (*CtxZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultManagerConfig()
	cfg.EnableStacktrace = false
	return NewCtxZapLogger(module, core, cfg), logs
}

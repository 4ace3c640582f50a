package logger

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.uber.org/zap/zapcore"
)

// ManagerConfig is shared by every module logger created by a Manager.
type ManagerConfig struct {
	BaseLogDir       string `mapstructure:"base_log_dir"`
	Level            string `mapstructure:"level"`
	AppName          string `mapstructure:"app_name"`
	Encoding         string `mapstructure:"encoding"` // json or console
	EnableConsole    bool   `mapstructure:"enable_console"`
	EnableFile       bool   `mapstructure:"enable_file"`
	MaxSize          int    `mapstructure:"max_size"` // MB
	MaxBackups       int    `mapstructure:"max_backups"`
	MaxAge           int    `mapstructure:"max_age"` // days
	Compress         bool   `mapstructure:"compress"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
	StacktraceDepth  int    `mapstructure:"stacktrace_depth"`
	EnableTraceID    bool   `mapstructure:"enable_trace_id"`
}

// DefaultManagerConfig logs JSON to stdout only.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:       "logs",
		Level:            "info",
		AppName:          "snacktrack",
		Encoding:         "json",
		EnableConsole:    true,
		EnableFile:       false,
		MaxSize:          100,
		MaxBackups:       3,
		MaxAge:           28,
		Compress:         true,
		EnableCaller:     true,
		EnableStacktrace: true,
		StacktraceDepth:  5,
		EnableTraceID:    true,
	}
}

// ApplyDefaults fills zero-valued string and numeric fields in place.
// Booleans are left as configured.
func (c *ManagerConfig) ApplyDefaults() {
	d := DefaultManagerConfig()
	if c.BaseLogDir == "" {
		c.BaseLogDir = d.BaseLogDir
	}
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.Encoding == "" {
		c.Encoding = d.Encoding
	}
	if c.MaxSize == 0 {
		c.MaxSize = d.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = d.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = d.MaxAge
	}
	if c.StacktraceDepth == 0 {
		c.StacktraceDepth = d.StacktraceDepth
	}
}

var validLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Validate implements config.Validator.
func (c ManagerConfig) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (valid values: %v)", c.Level, validLevels)
	}
	if c.Encoding != "json" && c.Encoding != "console" {
		return fmt.Errorf("invalid log encoding: %s (valid values: json, console)", c.Encoding)
	}
	if c.MaxSize < 1 || c.MaxSize > 10000 {
		return fmt.Errorf("max_size must be between 1-10000 MB, current: %d", c.MaxSize)
	}
	if c.MaxBackups < 0 || c.MaxBackups > 1000 {
		return fmt.Errorf("max_backups must be between 0-1000, current: %d", c.MaxBackups)
	}
	if c.MaxAge < 0 || c.MaxAge > 3650 {
		return fmt.Errorf("max_age must be between 0-3650 days, current: %d", c.MaxAge)
	}
	return nil
}

// ParseLevel maps a level name to zap, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// logs/<module>/<module>-<level>.log
func (c ManagerConfig) filePath(module, level string) string {
	return filepath.Join(c.BaseLogDir, module, module+"-"+level+".log")
}

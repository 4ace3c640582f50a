package telemetry

import (
	"fmt"
	"time"
)

// Config for OpenTelemetry tracing.
type Config struct {
	Enabled        bool           `mapstructure:"enabled"`
	ServiceName    string         `mapstructure:"service_name"`
	ServiceVersion string         `mapstructure:"service_version"`
	Exporter       ExporterConfig `mapstructure:"exporter"`
	Sampler        SamplerConfig  `mapstructure:"sampler"`
	Batch          BatchConfig    `mapstructure:"batch"`
	// ResourceAttrs may nest; keys are flattened with dots and values expanded from env.
	ResourceAttrs map[string]any `mapstructure:"resource_attributes"`
}

// ExporterConfig selects where spans go: stdout or noop.
type ExporterConfig struct {
	Type        string `mapstructure:"type"`
	PrettyPrint bool   `mapstructure:"pretty_print"`
}

// SamplerConfig type is always_on, always_off, trace_id_ratio or parent_based_always_on.
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Ratio float64 `mapstructure:"ratio"`
}

type BatchConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	MaxQueueSize       int           `mapstructure:"max_queue_size"`
	MaxExportBatchSize int           `mapstructure:"max_export_batch_size"`
	ScheduleDelay      time.Duration `mapstructure:"schedule_delay"`
	ExportTimeout      time.Duration `mapstructure:"export_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		ServiceName: "snacktrack-api",
		Exporter:    ExporterConfig{Type: "stdout"},
		Sampler:     SamplerConfig{Type: "parent_based_always_on", Ratio: 1},
		Batch: BatchConfig{
			Enabled:            true,
			MaxQueueSize:       2048,
			MaxExportBatchSize: 512,
			ScheduleDelay:      5 * time.Second,
			ExportTimeout:      30 * time.Second,
		},
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.ServiceName == "" {
		c.ServiceName = d.ServiceName
	}
	if c.Exporter.Type == "" {
		c.Exporter.Type = d.Exporter.Type
	}
	if c.Sampler.Type == "" {
		c.Sampler = d.Sampler
	}
	if c.Batch.MaxQueueSize == 0 {
		c.Batch.MaxQueueSize = d.Batch.MaxQueueSize
	}
	if c.Batch.MaxExportBatchSize == 0 {
		c.Batch.MaxExportBatchSize = d.Batch.MaxExportBatchSize
	}
	if c.Batch.ScheduleDelay == 0 {
		c.Batch.ScheduleDelay = d.Batch.ScheduleDelay
	}
	if c.Batch.ExportTimeout == 0 {
		c.Batch.ExportTimeout = d.Batch.ExportTimeout
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("telemetry service_name is required when enabled")
	}
	switch c.Exporter.Type {
	case "stdout", "noop":
	default:
		return fmt.Errorf("unsupported exporter type: %s", c.Exporter.Type)
	}
	if c.Sampler.Type == "trace_id_ratio" && (c.Sampler.Ratio < 0 || c.Sampler.Ratio > 1) {
		return fmt.Errorf("sampler ratio must be within [0, 1], got: %v", c.Sampler.Ratio)
	}
	return nil
}

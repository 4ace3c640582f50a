package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// newTracerProvider builds the SDK provider for cfg, exporting to w.
func newTracerProvider(ctx context.Context, cfg Config, w io.Writer) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	exp, err := newExporter(cfg.Exporter, w)
	if err != nil {
		return nil, fmt.Errorf("telemetry exporter: %w", err)
	}

	var processor sdktrace.TracerProviderOption
	if b := cfg.Batch; b.Enabled {
		processor = sdktrace.WithBatcher(exp,
			sdktrace.WithMaxQueueSize(b.MaxQueueSize),
			sdktrace.WithMaxExportBatchSize(b.MaxExportBatchSize),
			sdktrace.WithBatchTimeout(b.ScheduleDelay),
			sdktrace.WithExportTimeout(b.ExportTimeout),
		)
	} else {
		processor = sdktrace.WithSyncer(exp)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.Sampler)),
		processor,
	), nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	flat := make(map[string]string)
	flattenInto(flat, "", cfg.ResourceAttrs)

	attrs := make([]attribute.KeyValue, 0, len(flat)+2)
	attrs = append(attrs,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)
	for k, v := range flat {
		attrs = append(attrs, attribute.String(k, os.ExpandEnv(v)))
	}

	return resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
	)
}

// flattenInto joins nested keys with dots:
// {"deployment": {"environment": "test"}} becomes {"deployment.environment": "test"}.
func flattenInto(dst map[string]string, prefix string, src map[string]any) {
	for k, v := range src {
		if prefix != "" {
			k = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flattenInto(dst, k, val)
		case string:
			dst[k] = val
		default:
			dst[k] = fmt.Sprint(val)
		}
	}
}

func sampler(cfg SamplerConfig) sdktrace.Sampler {
	switch cfg.Type {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "trace_id_ratio":
		return sdktrace.TraceIDRatioBased(cfg.Ratio)
	}
	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

func newExporter(cfg ExporterConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Type {
	case "noop":
		return discardExporter{}, nil
	case "stdout":
		opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
		if cfg.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	}
	return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Type)
}

type discardExporter struct{}

func (discardExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (discardExporter) Shutdown(context.Context) error {
	return nil
}

// Package telemetry configures OpenTelemetry trace export.
package telemetry

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/sells-group/l1-pricing/internal/config"
)

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider exporting over OTLP/HTTP when
// cfg.OTLPEndpoint is set. Otherwise the no-op provider stays in place. The
// returned ShutdownFunc is never nil.
func Init(ctx context.Context, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if cfg.OTLPEndpoint == "" {
		return noop, nil
	}

	exp, err := otlptracehttp.New(ctx, endpointOption(cfg.OTLPEndpoint))
	if err != nil {
		return noop, eris.Wrap(err, "telemetry: create otlp exporter")
	}

	tp := NewProvider(cfg.ServiceName, sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	zap.L().Info("telemetry: tracing enabled",
		zap.String("endpoint", cfg.OTLPEndpoint),
		zap.String("service", cfg.ServiceName),
	)
	return func(ctx context.Context) error {
		return eris.Wrap(tp.Shutdown(ctx), "telemetry: shutdown")
	}, nil
}

// NewProvider returns an SDK tracer provider tagged with serviceName.
func NewProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	return sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)...)
}

// endpointOption accepts either a full URL or a bare host:port.
func endpointOption(endpoint string) otlptracehttp.Option {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return otlptracehttp.WithEndpointURL(endpoint)
	}
	return otlptracehttp.WithEndpoint(endpoint)
}

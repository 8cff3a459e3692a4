package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sells-group/l1-pricing/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), config.TelemetryConfig{ServiceName: "l1-pricing"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestInit_Enabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown, err := Init(context.Background(), config.TelemetryConfig{
		OTLPEndpoint: "http://127.0.0.1:4318",
		ServiceName:  "l1-pricing",
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
}

func TestNewProvider_Resource(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := NewProvider("pricing-test", sdktrace.WithSpanProcessor(sr))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	svc, ok := spans[0].Resource().Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "pricing-test", svc.AsString())
}

func TestEndpointOption(t *testing.T) {
	assert.NotNil(t, endpointOption("collector:4318"))
	assert.NotNil(t, endpointOption("https://otel.example.com/v1/traces"))
}

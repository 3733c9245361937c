package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/donaldgifford/resale-router/internal/config"
	"github.com/donaldgifford/resale-router/internal/telemetry"
)

func TestSetup_NoEndpoint(t *testing.T) {
	cfg := config.Default().Telemetry

	shutdown, err := telemetry.Setup(context.Background(), &cfg, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ratio     float64
		wantSpans int
	}{
		{name: "always sampled", ratio: 1, wantSpans: 1},
		{name: "never sampled", ratio: 0, wantSpans: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default().Telemetry
			cfg.SampleRatio = tt.ratio

			exp := tracetest.NewInMemoryExporter()
			tp := telemetry.NewTracerProvider(exp, &cfg, "v1.2.3")

			_, span := tp.Tracer("test").Start(context.Background(), "valuation.Valuate")
			span.End()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			require.NoError(t, tp.ForceFlush(ctx))

			spans := exp.GetSpans()
			require.Len(t, spans, tt.wantSpans)
			if tt.wantSpans == 0 {
				return
			}
			assert.Equal(t, "valuation.Valuate", spans[0].Name)
			assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "resale-router"))
			assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.version", "v1.2.3"))
		})
	}
}

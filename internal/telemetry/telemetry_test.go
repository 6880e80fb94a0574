package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/upsbridge/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "error", "bogus", ""} {
		t.Run(level, func(t *testing.T) {
			logger, err := telemetry.NewLogger(level, "stderr")
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestMetrics_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	m.RecordRequest("track", "ups", "success", 0.2)
	m.RecordRequest("track", "ups", "success", 0.1)
	m.RecordRequest("rate", "ups", "error", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("track", "ups", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rate", "ups", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_RecordError(t *testing.T) {
	m := telemetry.NewMetrics(prometheus.NewRegistry())

	m.RecordError("ups", "API_ERROR")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CarrierErrors.WithLabelValues("ups", "API_ERROR")))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.NewMetrics(prometheus.NewRegistry())
		telemetry.NewMetrics(prometheus.NewRegistry())
	})
}

func TestInitTracer(t *testing.T) {
	// The exporter connects lazily, so no collector is needed.
	ctx := context.Background()
	tracer, shutdown, err := telemetry.InitTracer(ctx, "http://127.0.0.1:4318", "test",
		attribute.String("service.name", "test"))
	require.NoError(t, err)
	require.NotNil(t, tracer)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, shutdown(shutdownCtx))
}

func TestNoopTracer(t *testing.T) {
	_, span := telemetry.NoopTracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

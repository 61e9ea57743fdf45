package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

func TestLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, logLevel("debug"))
	require.Equal(t, slog.LevelWarn, logLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, logLevel(""))
	require.Equal(t, slog.LevelInfo, logLevel("verbose"))
}

func TestInstrumentsFallbacks(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("test"))
	require.NotNil(t, instruments.Meter("test"))
}

func TestServiceAttributes(t *testing.T) {
	t.Setenv("SERVICE_VERSION", "1.4.0")
	t.Setenv("ENVIRONMENT", "")

	attrs := attribute.NewSet(serviceAttributes("invoicing-api", []attribute.KeyValue{attribute.String("invoicing.db.driver", "postgres")})...)
	for key, want := range map[attribute.Key]string{
		"service.name":           "invoicing-api",
		"service.namespace":      "invoicing",
		"service.version":        "1.4.0",
		"deployment.environment": "local",
		"invoicing.db.driver":    "postgres",
	} {
		value, ok := attrs.Value(key)
		require.True(t, ok, key)
		require.Equal(t, want, value.AsString(), key)
	}
}

func TestInvoiceViews(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	meter := newMeterProvider(resource.Empty(), reader).Meter("test")

	totals, err := meter.Float64Histogram(InvoiceTotalInstrument)
	require.NoError(t, err)
	totals.Record(ctx, 42.5)
	failures, err := meter.Int64Counter(InvoiceFailuresInstrument)
	require.NoError(t, err)
	failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "insufficient_stock"), attribute.Int64("client.id", 7)))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	histogram, ok := byName[InvoiceTotalInstrument].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Equal(t, InvoiceTotalBuckets, histogram.DataPoints[0].Bounds)

	sum, ok := byName[InvoiceFailuresInstrument].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Equal(t, 1, sum.DataPoints[0].Attributes.Len())
	_, kept := sum.DataPoints[0].Attributes.Value("reason")
	require.True(t, kept)
}

package xmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// newTestObserver 基于 SDK 手动采集器构建 Observer，返回观测器与采集句柄。
func newTestObserver(t *testing.T) (Observer, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	obs, err := NewOTelObserver(WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)
	return obs, reader, recorder
}

func TestOTelObserverRecordsSpanAndMetrics(t *testing.T) {
	obs, reader, recorder := newTestObserver(t)

	ctx, span := obs.Start(context.Background(), SpanOptions{
		Component: "xndc",
		Operation: "reap",
		Kind:      KindInternal,
		Attrs:     []Attr{{Key: "scanned", Value: 3}},
	})
	require.NotNil(t, ctx)
	span.End(Result{Status: StatusOK, Attrs: []Attr{{Key: "purged", Value: 1}}})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reap", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String("component", "xndc"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("scanned", 3))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("purged", 1))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := make(map[string]bool)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	assert.True(t, names[metricOperationTotal])
	assert.True(t, names[metricOperationDuration])
}

func TestOTelSpanEndIdempotent(t *testing.T) {
	obs, reader, recorder := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{Component: "c", Operation: "op"})
	span.End(Result{})
	span.End(Result{})
	span.End(Result{})

	assert.Len(t, recorder.Ended(), 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != metricOperationTotal {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)
		assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	}
}

func TestOTelSpanErrorStatus(t *testing.T) {
	obs, _, recorder := newTestObserver(t)

	boom := errors.New("boom")
	_, span := obs.Start(context.Background(), SpanOptions{Component: "c", Operation: "op"})
	span.End(Result{Err: boom})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "exception", events[0].Name)
}

func TestOTelObserverDefaultsUnknown(t *testing.T) {
	obs, _, recorder := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{})
	span.End(Result{})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, unknownOperation, spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("component", unknownComponent))
}

func TestToKeyValueConversions(t *testing.T) {
	tests := []struct {
		name string
		attr Attr
		want attribute.KeyValue
	}{
		{"string", Attr{Key: "k", Value: "v"}, attribute.String("k", "v")},
		{"bool", Attr{Key: "k", Value: true}, attribute.Bool("k", true)},
		{"int", Attr{Key: "k", Value: 7}, attribute.Int("k", 7)},
		{"int64", Attr{Key: "k", Value: int64(7)}, attribute.Int64("k", 7)},
		{"uint64 small", Attr{Key: "k", Value: uint64(7)}, attribute.Int64("k", 7)},
		{"uint64 overflow", Attr{Key: "k", Value: uint64(1) << 63}, attribute.String("k", "9223372036854775808")},
		{"float64", Attr{Key: "k", Value: 1.5}, attribute.Float64("k", 1.5)},
		{"duration", Attr{Key: "k", Value: time.Second}, attribute.Int64("k", int64(time.Second))},
		{"fallback", Attr{Key: "k", Value: struct{ X int }{1}}, attribute.String("k", "{1}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toKeyValue(tt.attr))
		})
	}
}

package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTelemetry creates test providers with in-memory exporters
func setupTestTelemetry(t *testing.T) (*tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	spanRecorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder)))

	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	Reset()

	t.Cleanup(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetMeterProvider(sdkmetric.NewMeterProvider())
		Reset()
	})

	return spanRecorder, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	metrics := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}
	return metrics
}

func TestRecordToolCall(t *testing.T) {
	spanRecorder, reader := setupTestTelemetry(t)
	ctx := context.Background()

	ctx, span := StartToolCallSpan(ctx, "sum_two_numbers", trace.SpanKindServer, attribute.String("mcp.server.name", "calc"))
	RecordToolCall(ctx, span, "sum_two_numbers", "calc", 12.5, false, nil)
	span.End()

	_, span = StartToolCallSpan(ctx, "divide", trace.SpanKindServer)
	RecordToolCall(ctx, span, "divide", "calc", 3, true, nil)
	span.End()

	_, span = StartToolCallSpan(ctx, "divide", trace.SpanKindServer)
	RecordToolCall(ctx, span, "divide", "calc", 1, false, errors.New("boom"))
	span.End()

	spans := spanRecorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "mcp.tool.call", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "Tool execution failed", spans[2].Status().Description)

	metrics := collect(t, reader)

	calls := metrics["mcp.tool.calls"].Data.(metricdata.Sum[int64])
	var total int64
	for _, dp := range calls.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)

	errs := metrics["mcp.tool.errors"].Data.(metricdata.Sum[int64])
	require.Len(t, errs.DataPoints, 1)
	assert.Equal(t, int64(2), errs.DataPoints[0].Value)
	name, _ := errs.DataPoints[0].Attributes.Value("mcp.tool.name")
	assert.Equal(t, "divide", name.AsString())

	duration := metrics["mcp.tool.duration"].Data.(metricdata.Histogram[float64])
	var sum float64
	for _, dp := range duration.DataPoints {
		sum += dp.Sum
	}
	assert.InEpsilon(t, 16.5, sum, 0.01)
}

func TestRecordLLMRequest(t *testing.T) {
	spanRecorder, reader := setupTestTelemetry(t)
	ctx := context.Background()

	ctx, span := StartLLMSpan(ctx, "gpt-4o", 2)
	RecordLLMRequest(ctx, span, "gpt-4o", nil)
	span.End()

	spans := spanRecorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "llm.chat.completion", spans[0].Name())

	requests := collect(t, reader)["mcp.llm.requests"].Data.(metricdata.Sum[int64])
	require.Len(t, requests.DataPoints, 1)
	assert.Equal(t, int64(1), requests.DataPoints[0].Value)
	model, _ := requests.DataPoints[0].Attributes.Value("llm.model")
	assert.Equal(t, "gpt-4o", model.AsString())
}

func TestSetupWithoutEndpoint(t *testing.T) {
	t.Setenv(EndpointEnv, "")

	shutdown, err := Setup(context.Background(), "mcp-client", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, ToolCallCounter)
}

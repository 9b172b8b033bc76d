package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "github.com/mcplab/mcp-examples"
	MeterName  = "github.com/mcplab/mcp-examples"
)

var (
	tracer trace.Tracer
	meter  metric.Meter

	// ToolCallCounter counts tool calls, client or server side.
	ToolCallCounter metric.Int64Counter

	// ToolCallDuration is the duration of tool calls in milliseconds.
	ToolCallDuration metric.Float64Histogram

	// ToolErrorCounter counts failed tool calls and tool results flagged as errors.
	ToolErrorCounter metric.Int64Counter

	// LLMRequestCounter counts chat-completion requests by model.
	LLMRequestCounter metric.Int64Counter

	initOnce sync.Once
)

// Init binds the instruments to the global providers. It is safe to call
// more than once, only the first call has an effect unless Reset is called.
func Init() {
	initOnce.Do(initInstruments)
}

// Reset rebinds the instruments to the current global providers.
func Reset() {
	initOnce = sync.Once{}
	Init()
}

func initInstruments() {
	tracer = otel.GetTracerProvider().Tracer(TracerName)
	meter = otel.GetMeterProvider().Meter(MeterName)

	// Instrument creation only fails on invalid names, the instruments stay
	// usable no-ops in that case.
	ToolCallCounter, _ = meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of tool calls executed"),
		metric.WithUnit("1"))

	ToolCallDuration, _ = meter.Float64Histogram("mcp.tool.duration",
		metric.WithDescription("Duration of tool call execution"),
		metric.WithUnit("ms"))

	ToolErrorCounter, _ = meter.Int64Counter("mcp.tool.errors",
		metric.WithDescription("Number of tool call errors"),
		metric.WithUnit("1"))

	LLMRequestCounter, _ = meter.Int64Counter("mcp.llm.requests",
		metric.WithDescription("Number of chat-completion requests"),
		metric.WithUnit("1"))
}

// StartToolCallSpan starts a span for a tool call. kind tells a client call
// from a server side execution.
func StartToolCallSpan(ctx context.Context, toolName string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	Init()

	allAttrs := append([]attribute.KeyValue{
		attribute.String("mcp.tool.name", toolName),
	}, attrs...)

	return tracer.Start(ctx, "mcp.tool.call",
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(kind))
}

// StartLLMSpan starts a span around one chat-completion request.
func StartLLMSpan(ctx context.Context, model string, toolCount int) (context.Context, trace.Span) {
	Init()

	return tracer.Start(ctx, "llm.chat.completion",
		trace.WithAttributes(
			attribute.String("llm.model", model),
			attribute.Int("llm.tools", toolCount),
		),
		trace.WithSpanKind(trace.SpanKindClient))
}

// RecordToolCall records the outcome of one tool call.
func RecordToolCall(ctx context.Context, span trace.Span, toolName, serverName string, durationMs float64, isError bool, err error) {
	Init()

	attrs := metric.WithAttributes(
		attribute.String("mcp.tool.name", toolName),
		attribute.String("mcp.server.name", serverName),
	)

	ToolCallCounter.Add(ctx, 1, attrs)
	ToolCallDuration.Record(ctx, durationMs, attrs)

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "Tool execution failed")
		ToolErrorCounter.Add(ctx, 1, attrs)
	case isError:
		span.SetStatus(codes.Error, "Tool returned error")
		ToolErrorCounter.Add(ctx, 1, attrs)
	default:
		span.SetStatus(codes.Ok, "")
	}
}

// RecordLLMRequest counts one chat-completion request and closes its span status.
func RecordLLMRequest(ctx context.Context, span trace.Span, model string, err error) {
	Init()

	LLMRequestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("llm.model", model),
		attribute.Bool("llm.error", err != nil),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat completion failed")
		return
	}
	span.SetStatus(codes.Ok, "")
}

package interceptors

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcplab/mcp-examples/pkg/telemetry"
)

// TelemetryMiddleware records a span and the tool metrics for every tool call
// served by serverName.
func TelemetryMiddleware(serverName string) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			callReq, ok := req.(*mcp.CallToolRequest)
			if method != "tools/call" || !ok || callReq.Params == nil {
				return next(ctx, method, req)
			}

			name := callReq.Params.Name
			ctx, span := telemetry.StartToolCallSpan(ctx, name, trace.SpanKindServer,
				attribute.String("mcp.server.name", serverName))
			defer span.End()

			start := time.Now()
			result, err := next(ctx, method, req)
			duration := float64(time.Since(start).Milliseconds())

			isError := false
			if toolResult, ok := result.(*mcp.CallToolResult); ok && toolResult != nil {
				isError = toolResult.IsError
			}
			telemetry.RecordToolCall(ctx, span, name, serverName, duration, isError, err)

			return result, err
		}
	}
}

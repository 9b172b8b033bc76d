package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcplab/mcp-examples/pkg/telemetry"
)

// CallTool calls a tool on session and records the call.
func CallTool(ctx context.Context, session *mcp.ClientSession, serverName, toolName string, arguments map[string]any) (*mcp.CallToolResult, error) {
	ctx, span := telemetry.StartToolCallSpan(ctx, toolName, trace.SpanKindClient,
		attribute.String("mcp.server.name", serverName))
	defer span.End()

	start := time.Now()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: arguments,
	})
	duration := float64(time.Since(start).Milliseconds())

	telemetry.RecordToolCall(ctx, span, toolName, serverName, duration, err == nil && result.IsError, err)

	return result, err
}

// ResultText renders the content of a tool result as text. Text items are
// joined with newlines, other items are rendered as JSON.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
			continue
		}
		buf, err := json.Marshal(content)
		if err != nil {
			continue
		}
		parts = append(parts, string(buf))
	}

	if len(parts) == 0 && result.StructuredContent != nil {
		if buf, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(buf))
		}
	}

	return strings.Join(parts, "\n")
}

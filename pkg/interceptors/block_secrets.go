package interceptors

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/secretsscan"
)

// BlockSecretsMiddleware fails a tool call when its arguments, or the text
// it returns, look like they carry credentials.
func BlockSecretsMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			call, ok := req.(*mcp.CallToolRequest)
			if !ok || method != "tools/call" || call.Params == nil {
				return next(ctx, method, req)
			}
			tool := call.Params.Name

			if secretsscan.ContainsSecrets(argumentsToString(call.Params.Arguments)) {
				logf("  > Blocked arguments of %s.\n", tool)
				return nil, fmt.Errorf("a secret is being passed to tool %s", tool)
			}

			result, err := next(ctx, method, req)
			if err != nil {
				return result, err
			}

			if text := toolResultText(result); text != "" && secretsscan.ContainsSecrets(text) {
				logf("  > Blocked result of %s.\n", tool)
				return nil, fmt.Errorf("a secret is being returned by the %s tool", tool)
			}

			return result, nil
		}
	}
}

func toolResultText(result mcp.Result) string {
	toolResult, ok := result.(*mcp.CallToolResult)
	if !ok || toolResult == nil {
		return ""
	}

	var sb strings.Builder
	for _, content := range toolResult.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

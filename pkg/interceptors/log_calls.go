package interceptors

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LogCallsMiddleware logs every tool call with its arguments and duration.
func LogCallsMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			callReq, ok := req.(*mcp.CallToolRequest)
			if method != "tools/call" || !ok || callReq.Params == nil {
				return next(ctx, method, req)
			}

			name := callReq.Params.Name
			start := time.Now()

			logf("- Calling tool %s with arguments: %s\n", name, argumentsToString(callReq.Params.Arguments))

			result, err := next(ctx, method, req)
			if err != nil {
				logf("> Calling tool %s failed after %s: %v\n", name, time.Since(start), err)
				return result, err
			}

			logf("> Calling tool %s took: %s\n", name, time.Since(start))

			return result, nil
		}
	}
}

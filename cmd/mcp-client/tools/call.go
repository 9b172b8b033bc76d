package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

func Call(ctx context.Context, target Target, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("no tool name provided")
	}

	c, err := start(ctx, target)
	if err != nil {
		return fmt.Errorf("starting client: %w", err)
	}
	defer c.Close()

	return call(ctx, c.Session(), target.Server, args, out)
}

func call(ctx context.Context, session *mcp.ClientSession, serverName string, args []string, out io.Writer) error {
	toolName := args[0]

	start := time.Now()
	response, err := mcpclient.CallTool(ctx, session, serverName, toolName, parseArgs(args[1:]))
	if err != nil {
		return fmt.Errorf("calling tool: %w", err)
	}
	fmt.Fprintln(out, "Tool call took:", time.Since(start))

	if response.IsError {
		return fmt.Errorf("error calling tool %s: %s", toolName, mcpclient.ResultText(response))
	}

	fmt.Fprintln(out, mcpclient.ResultText(response))

	return nil
}

// parseArgs turns key=value pairs into tool arguments. Numbers and booleans
// are converted, a repeated key becomes a list.
func parseArgs(args []string) map[string]any {
	parsed := map[string]any{}

	for _, arg := range args {
		var (
			key   string
			value any
		)

		parts := strings.SplitN(arg, "=", 2)
		if len(parts) == 2 {
			key = parts[0]
			value = parseValue(parts[1])
		} else {
			key = arg
			value = nil
		}

		if previous, found := parsed[key]; found {
			switch previous := previous.(type) {
			case []any:
				parsed[key] = append(previous, value)
			default:
				parsed[key] = []any{previous, value}
			}
		} else {
			parsed[key] = value
		}
	}

	return parsed
}

func parseValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

package calculator

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

type twoInts struct {
	A int `json:"a" jsonschema:"First number"`
	B int `json:"b" jsonschema:"Second number"`
}

// NewCalculator returns the Calculator_MCP_Server with sum, subtract and
// multiply tools on integers a and b.
func NewCalculator() *mcp.Server {
	server := mcp.NewServer(config.Implementation("Calculator_MCP_Server"), nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sum_two_numbers",
		Description: "A tool that sums two numbers.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in twoInts) (*mcp.CallToolResult, any, error) {
		return text(fmt.Sprintf("The sum of %d and %d is %d (Calculated by MCP server).", in.A, in.B, in.A+in.B)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "subtract_two_numbers",
		Description: "A tool that subtracts two numbers.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in twoInts) (*mcp.CallToolResult, any, error) {
		return text(fmt.Sprintf("The difference of %d and %d is %d (Calculated by MCP server).", in.A, in.B, in.A-in.B)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "multiply_two_numbers",
		Description: "A tool that multiplies two numbers.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in twoInts) (*mcp.CallToolResult, any, error) {
		return text(fmt.Sprintf("The product of %d and %d is %d (Calculated by MCP server).", in.A, in.B, in.A*in.B)), nil, nil
	})

	return server
}

type xy struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewFast returns the Fast_MCP_Server, the same sentences on integers x and y.
func NewFast() *mcp.Server {
	server := mcp.NewServer(config.Implementation("Fast_MCP_Server"), nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sum_two_numbers_tool",
		Description: "A tool that sums two numbers.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in xy) (*mcp.CallToolResult, any, error) {
		return text(fmt.Sprintf("The sum of %d and %d is %d (Calculated by MCP server).", in.X, in.Y, in.X+in.Y)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "subtract_two_numbers_tool",
		Description: "A tool that subtracts two numbers.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in xy) (*mcp.CallToolResult, any, error) {
		return text(fmt.Sprintf("The difference of %d and %d is %d (Calculated by MCP server).", in.X, in.Y, in.X-in.Y)), nil, nil
	})

	return server
}

func text(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: s}}}
}

package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

// twoNumbers is the input schema shared by the simple calculator tools.
func twoNumbers(first, second string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"a": {Type: "number", Description: first},
			"b": {Type: "number", Description: second},
		},
		Required: []string{"a", "b"},
	}
}

type operands struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// NewSimple returns the simple-calculator server. Its tools are declared with
// explicit schemas and dispatched by name.
func NewSimple() *mcp.Server {
	server := mcp.NewServer(config.Implementation("simple-calculator"), nil)

	tools := []*mcp.Tool{
		{Name: "add", Description: "Add two numbers together", InputSchema: twoNumbers("First number", "Second number")},
		{Name: "subtract", Description: "Subtract second number from first number", InputSchema: twoNumbers("First number", "Second number")},
		{Name: "multiply", Description: "Multiply two numbers", InputSchema: twoNumbers("First number", "Second number")},
		{Name: "divide", Description: "Divide first number by second number", InputSchema: twoNumbers("First number (dividend)", "Second number (divisor)")},
	}
	for _, tool := range tools {
		server.AddTool(tool, SimpleCall)
	}

	return server
}

// SimpleCall executes one of the simple calculator operations. Results are
// the bare number as text.
func SimpleCall(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	logf("Tool called: %s with arguments: %s\n", name, string(req.Params.Arguments))

	var in operands
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
	}

	var result float64
	switch name {
	case "add":
		result = in.A + in.B
	case "subtract":
		result = in.A - in.B
	case "multiply":
		result = in.A * in.B
	case "divide":
		if in.B == 0 {
			return text("Error: Cannot divide by zero"), nil
		}
		result = in.A / in.B
	default:
		return text("Unknown tool: " + name), nil
	}

	return text(number(result)), nil
}

// NewMinimal returns the minimal "calculator" server with a single tool.
func NewMinimal() *mcp.Server {
	server := mcp.NewServer(config.Implementation("calculator"), nil)

	server.AddTool(&mcp.Tool{
		Name:        "sum_two_numbers",
		Description: "Add two numbers together",
		InputSchema: twoNumbers("First number", "Second number"),
	}, MinimalCall)

	return server
}

// MinimalCall answers sum_two_numbers, any other name is a tool error.
func MinimalCall(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if req.Params.Name != "sum_two_numbers" {
		result := text("Unknown tool: " + req.Params.Name)
		result.IsError = true
		return result, nil
	}

	var in operands
	if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", req.Params.Name, err)
	}

	return text(fmt.Sprintf("The sum of %s and %s is %s (Calculated by MCP server).",
		number(in.A), number(in.B), number(in.A+in.B))), nil
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func logf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, a...)
}

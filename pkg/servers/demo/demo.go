package demo

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

// DefaultPort is where the demo server listens for SSE clients.
const DefaultPort = 8004

type AddNumbersInput struct {
	A int `json:"a"`
	B int `json:"b"`
}

func NewServer() *mcp.Server {
	server := mcp.NewServer(config.Implementation("Demo"), nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_numbers",
		Description: "Add two numbers together",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in AddNumbersInput) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: strconv.Itoa(in.A + in.B)}},
		}, nil, nil
	})

	return server
}

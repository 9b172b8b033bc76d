package tools

import (
	"context"
	"fmt"
	"strings"

	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

// Target is the server the tools commands talk to.
type Target struct {
	Server     string
	ServerArgs []string
	Transport  string
	Verbose    bool
}

func start(ctx context.Context, target Target) (mcpclient.Client, error) {
	if target.Server == "" {
		return nil, fmt.Errorf("no server provided, use --server")
	}

	resolved, err := mcpclient.ResolveTarget(target.Server, target.ServerArgs, target.Transport)
	if err != nil {
		return nil, err
	}

	name := target.Server
	if i := strings.LastIndex(name, "/"); i >= 0 && !resolved.IsRemote() {
		name = name[i+1:]
	}

	c := mcpclient.NewClient(name, resolved, nil)
	if err := c.Initialize(ctx, target.Verbose); err != nil {
		return nil, err
	}

	return c, nil
}

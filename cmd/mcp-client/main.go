package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcplab/mcp-examples/cmd/mcp-client/commands"
	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/telemetry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A second signal kills the process, even while a command waits on stdin.
	go func() {
		<-ctx.Done()
		cancel()
	}()

	shutdown, err := telemetry.Setup(ctx, "mcp-client", config.Version)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: setting up telemetry:", err)
		os.Exit(1)
	}

	err = commands.Root(ctx).Execute()
	_ = shutdown(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}

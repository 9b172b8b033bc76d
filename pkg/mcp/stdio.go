package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/logs"
)

// childStderr receives the stderr of stdio servers.
var childStderr io.Writer = os.Stderr

type stdioMCPClient struct {
	name        string
	command     string
	env         []string
	args        []string
	client      *mcp.Client
	session     *mcp.ClientSession
	initialized atomic.Bool
}

func NewStdioCmdClient(name string, command string, env []string, args ...string) Client {
	return &stdioMCPClient{
		name:    name,
		command: command,
		env:     env,
		args:    args,
	}
}

func (c *stdioMCPClient) Initialize(ctx context.Context, debug bool) error {
	if c.initialized.Load() {
		return fmt.Errorf("client already initialized")
	}

	// The child must outlive ctx, it is stopped when the session closes.
	cmd := exec.Command(c.command, c.args...)
	cmd.Env = c.env

	cmd.Stderr = childStderr
	if debug {
		cmd.Stderr = logs.NewPrefixer(childStderr, "- "+c.name+": ")
	}

	transport := &mcp.CommandTransport{Command: cmd}
	c.client = mcp.NewClient(config.Implementation("mcp-client"), nil)

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.session = session
	c.initialized.Store(true)

	return nil
}

func (c *stdioMCPClient) Session() *mcp.ClientSession {
	if !c.initialized.Load() {
		panic("client not initialized")
	}
	return c.session
}

func (c *stdioMCPClient) Close() error {
	if !c.initialized.CompareAndSwap(true, false) {
		return nil
	}
	return c.session.Close()
}

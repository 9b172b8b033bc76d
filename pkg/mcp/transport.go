package mcp

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

// transportClient connects over an already built transport, in-memory pipes for instance.
type transportClient struct {
	name        string
	transport   mcp.Transport
	session     *mcp.ClientSession
	initialized atomic.Bool
}

func NewTransportClient(name string, transport mcp.Transport) Client {
	return &transportClient{
		name:      name,
		transport: transport,
	}
}

func (c *transportClient) Initialize(ctx context.Context, _ bool) error {
	if c.initialized.Load() {
		return fmt.Errorf("client already initialized")
	}

	client := mcp.NewClient(config.Implementation("mcp-client"), nil)
	session, err := client.Connect(ctx, c.transport, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.name, err)
	}

	c.session = session
	c.initialized.Store(true)

	return nil
}

func (c *transportClient) Session() *mcp.ClientSession {
	if !c.initialized.Load() {
		panic("client not initialized")
	}
	return c.session
}

func (c *transportClient) Close() error {
	if !c.initialized.CompareAndSwap(true, false) {
		return nil
	}
	return c.session.Close()
}

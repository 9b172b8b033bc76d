package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

type remoteMCPClient struct {
	name        string
	url         string
	transport   string
	headers     map[string]string
	client      *mcp.Client
	session     *mcp.ClientSession
	initialized atomic.Bool
}

// NewRemoteMCPClient connects over SSE or streamable HTTP. Header values may
// reference environment variables as ${VAR}.
func NewRemoteMCPClient(name, url, transport string, headers map[string]string) Client {
	return &remoteMCPClient{
		name:      name,
		url:       url,
		transport: transport,
		headers:   headers,
	}
}

func (c *remoteMCPClient) Initialize(ctx context.Context, _ bool) error {
	if c.initialized.Load() {
		return fmt.Errorf("client already initialized")
	}

	headers := map[string]string{}
	for k, v := range c.headers {
		headers[k] = os.ExpandEnv(v)
	}

	httpClient := &http.Client{
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: headers,
		},
	}

	transport, err := config.NormalizeRemoteTransport(c.transport)
	if err != nil {
		return err
	}

	var mcpTransport mcp.Transport
	switch transport {
	case config.TransportSSE:
		mcpTransport = &mcp.SSEClientTransport{
			Endpoint:   c.url,
			HTTPClient: httpClient,
		}
	default:
		mcpTransport = &mcp.StreamableClientTransport{
			Endpoint:   c.url,
			HTTPClient: httpClient,
		}
	}

	c.client = mcp.NewClient(config.Implementation("mcp-client"), nil)

	session, err := c.client.Connect(ctx, mcpTransport, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.session = session
	c.initialized.Store(true)

	return nil
}

func (c *remoteMCPClient) Session() *mcp.ClientSession {
	if !c.initialized.Load() {
		panic("client not initialized")
	}
	return c.session
}

func (c *remoteMCPClient) Close() error {
	if !c.initialized.CompareAndSwap(true, false) {
		return nil
	}
	return c.session.Close()
}

// headerRoundTripper is an http.RoundTripper that adds custom headers to all requests
type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	newReq := req.Clone(req.Context())
	for key, value := range h.headers {
		// Streamable transport sets its own Accept header.
		if key == "Accept" && newReq.Header.Get("Accept") != "" {
			continue
		}
		newReq.Header.Set(key, value)
	}
	return h.base.RoundTrip(newReq)
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/catalog"
	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

var (
	ErrNotConnected   = errors.New("client session is not initialized")
	ErrToolsNotCached = errors.New("tools not cached, connect to a server first")
)

// Client is a single-server chat client. It keeps one MCP session, the
// cached tool catalogue of that server and a chat-completion model.
type Client struct {
	model     llm.Model
	modelName string
	provider  string
	loggers   *logs.Loggers
	out       io.Writer
	debug     bool

	server  mcpclient.Client
	session *mcp.ClientSession
	catalog *catalog.Catalog
}

type Option func(*Client)

func WithModelName(name string) Option {
	return func(c *Client) {
		c.modelName = name
	}
}

// WithProvider sets the provider name shown in the chat loop banner.
func WithProvider(name string) Option {
	return func(c *Client) {
		c.provider = name
	}
}

func WithLoggers(l *logs.Loggers) Option {
	return func(c *Client) {
		c.loggers = l
	}
}

// WithOutput sets where user facing messages are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		c.out = w
	}
}

// WithDebug forwards the stderr of stdio servers.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

func New(model llm.Model, opts ...Option) *Client {
	c := &Client{
		model:     model,
		modelName: config.DefaultChatModel,
		provider:  "OpenAI",
		loggers:   logs.Nop(),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.catalog = catalog.New(c.loggers)
	return c
}

// Connect reaches the server named by a script path, an npm package or an
// http(s) URL, then loads its tools.
func (c *Client) Connect(ctx context.Context, pathOrURL string, serverArgs []string, transport string) error {
	target, err := mcpclient.ResolveTarget(pathOrURL, serverArgs, transport)
	if err != nil {
		return err
	}
	c.loggers.Client.Debugf("Connecting to MCP server with command: %s and args: %v", target.Command, target.Args)

	if err := c.Attach(ctx, mcpclient.NewClient(serverName(pathOrURL), target, nil)); err != nil {
		return err
	}

	var connected string
	switch target.Kind {
	case mcpclient.TargetStdio:
		connected = "Connected to stdio MCP Server"
	case mcpclient.TargetSSE:
		connected = "Connected to SSE MCP Server at " + target.URL
	default:
		connected = "Connected to streamable HTTP MCP Server at " + target.URL
	}

	names := c.catalog.Names()
	fmt.Fprintln(c.out, connected)
	fmt.Fprintf(c.out, "Available tools: %v\n", names)
	c.loggers.Client.Infof("%s. Available tools: %v", connected, names)

	return nil
}

// Attach initializes server and caches its tools.
func (c *Client) Attach(ctx context.Context, server mcpclient.Client) error {
	if c.server != nil {
		return errors.New("already connected to a server")
	}

	if err := server.Initialize(ctx, c.debug); err != nil {
		return err
	}

	session := server.Session()
	if err := c.catalog.Load(ctx, session); err != nil {
		_ = server.Close()
		return err
	}

	c.server = server
	c.session = session
	return nil
}

// RefreshTools reloads the tool catalogue from the server.
func (c *Client) RefreshTools(ctx context.Context) error {
	if c.session == nil {
		return ErrNotConnected
	}
	return c.catalog.Refresh(ctx, c.session)
}

func (c *Client) ToolNames() []string {
	return c.catalog.Names()
}

// Close ends the session, which also stops a stdio server.
func (c *Client) Close() error {
	if c.server == nil {
		return nil
	}
	err := c.server.Close()
	c.server = nil
	c.session = nil
	return err
}

func serverName(pathOrURL string) string {
	name := strings.TrimSuffix(filepath.Base(pathOrURL), filepath.Ext(pathOrURL))
	if name == "" || name == "." || name == "/" {
		return "server"
	}
	return name
}

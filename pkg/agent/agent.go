package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcplab/mcp-examples/pkg/catalog"
	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

const (
	DefaultSystemPrompt = "You are a helpful assistant that can use tools to answer questions."
	DefaultMaxSteps     = 10
)

type connection struct {
	name    string
	client  mcpclient.Client
	catalog *catalog.Catalog
}

// Agent answers questions with the tools of several MCP servers. The model
// decides which tools to call, the agent routes each call to the server
// owning the tool.
type Agent struct {
	model        llm.Model
	modelName    string
	systemPrompt string
	maxSteps     int
	debug        bool
	loggers      *logs.Loggers
	steps        *logs.StepLogger

	mu          sync.Mutex
	connections []*connection
	routes      map[string]*connection
	tools       []catalog.Tool
}

type Option func(*Agent)

func WithModelName(name string) Option {
	return func(a *Agent) {
		a.modelName = name
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithMaxSteps bounds the number of model calls for one query.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		a.maxSteps = n
	}
}

func WithStepLogger(s *logs.StepLogger) Option {
	return func(a *Agent) {
		a.steps = s
	}
}

func WithLoggers(l *logs.Loggers) Option {
	return func(a *Agent) {
		a.loggers = l
	}
}

func WithDebug(debug bool) Option {
	return func(a *Agent) {
		a.debug = debug
	}
}

func New(model llm.Model, opts ...Option) *Agent {
	a := &Agent{
		model:        model,
		modelName:    config.DefaultAgentModel,
		systemPrompt: DefaultSystemPrompt,
		maxSteps:     DefaultMaxSteps,
		loggers:      logs.Nop(),
		steps:        logs.NewStepLoggerTo(nil, nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	return a
}

// Start connects every configured server and logs the startup steps.
func (a *Agent) Start(ctx context.Context, servers []config.Server) error {
	a.steps.Step(2, "Initializing MCP Client...")
	clients := map[string]mcpclient.Client{}
	for _, server := range servers {
		clients[server.Name] = mcpclient.NewClient(server.Name, mcpclient.TargetFromServer(server), server.Environ())
	}
	a.steps.Success("MCP Client initialized successfully")
	for _, server := range servers {
		a.steps.Info("  - %s server: %s", server.Name, describe(server))
	}

	a.steps.Step(3, "Retrieving available tools from MCP servers...")
	if err := a.ConnectClients(ctx, clients); err != nil {
		a.steps.Error("Failed to get tools", err)
		return err
	}
	tools := a.Tools()
	a.steps.Success("Successfully retrieved %d tools", len(tools))
	for i, tool := range tools {
		a.steps.Info("  Tool %d: %s - %s", i+1, tool.Name, tool.Description)
	}

	a.steps.Step(4, fmt.Sprintf("Creating React Agent with %s...", a.modelName))
	a.steps.Success("React Agent created successfully")
	a.steps.Info("  - Model: %s", a.modelName)
	a.steps.Info("  - Tools attached: %d", len(tools))

	return nil
}

// ConnectClients initializes every client concurrently and merges their
// tools. Two servers exposing the same tool name is an error.
func (a *Agent) ConnectClients(ctx context.Context, clients map[string]mcpclient.Client) error {
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)

	connections := make([]*connection, len(names))
	// Sessions outlive the group, ctx must not be cancelled when it returns.
	var errs errgroup.Group
	for i, name := range names {
		errs.Go(func() error {
			conn := &connection{name: name, client: clients[name], catalog: catalog.New(a.loggers)}
			if err := conn.client.Initialize(ctx, a.debug); err != nil {
				return fmt.Errorf("server %s: %w", name, err)
			}
			connections[i] = conn
			if err := conn.catalog.Load(ctx, conn.client.Session()); err != nil {
				return fmt.Errorf("server %s: %w", name, err)
			}
			return nil
		})
	}

	closeAll := func() {
		for _, conn := range connections {
			if conn != nil {
				_ = conn.client.Close()
			}
		}
	}

	if err := errs.Wait(); err != nil {
		closeAll()
		return err
	}

	routes := map[string]*connection{}
	var tools []catalog.Tool
	for _, conn := range connections {
		for _, tool := range conn.catalog.Tools() {
			if owner, found := routes[tool.Name]; found {
				closeAll()
				return fmt.Errorf("tool name conflict: %s (servers %s, %s)", tool.Name, owner.name, conn.name)
			}
			routes[tool.Name] = conn
			tools = append(tools, tool)
		}
	}

	a.mu.Lock()
	a.connections = append(a.connections, connections...)
	a.routes = routes
	a.tools = tools
	a.mu.Unlock()

	return nil
}

func (a *Agent) Tools() []catalog.Tool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Tool(nil), a.tools...)
}

func (a *Agent) route(tool string) (*connection, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	conn, ok := a.routes[tool]
	return conn, ok
}

// Close ends every session.
func (a *Agent) Close() error {
	a.mu.Lock()
	connections := a.connections
	a.connections = nil
	a.routes = nil
	a.tools = nil
	a.mu.Unlock()

	var errs []string
	for _, conn := range connections {
		if err := conn.client.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", conn.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing servers: %s", strings.Join(errs, "; "))
	}
	return nil
}

func describe(server config.Server) string {
	if server.URL != "" {
		return server.URL
	}
	return strings.Join(append([]string{server.Command}, server.Args...), " ")
}

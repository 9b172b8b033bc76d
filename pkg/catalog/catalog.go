package catalog

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/op/go-logging.v1"

	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
)

// Lister lists every tool of a server, across pages. *mcp.ClientSession is one.
type Lister interface {
	Tools(ctx context.Context, params *mcp.ListToolsParams) iter.Seq2[*mcp.Tool, error]
}

// Catalog caches the tools of one server. The cache has no eviction, a
// successful load replaces it entirely.
type Catalog struct {
	mu       sync.RWMutex
	tools    []Tool
	loaded   bool
	log      *logging.Logger
	payloads *logging.Logger
}

func New(l *logs.Loggers) *Catalog {
	return &Catalog{
		log:      l.Client,
		payloads: l.Payloads,
	}
}

// Load lists the tools of the server. On failure the cache is left untouched.
func (c *Catalog) Load(ctx context.Context, lister Lister) error {
	logs.Banner(c.payloads, "MCP LIST TOOLS REQUEST (INITIAL LOAD)")

	var tools []Tool
	for tool, err := range lister.Tools(ctx, nil) {
		if err != nil {
			return fmt.Errorf("listing tools: %w", err)
		}
		tools = append(tools, fromMCP(tool))
	}

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	lines := []string{fmt.Sprintf("Available tools: %v", names)}
	for _, tool := range tools {
		lines = append(lines,
			"Tool: "+tool.Name,
			"  Description: "+tool.Description,
			"  Input Schema: "+logs.JSON(tool.InputSchema),
		)
	}
	logs.Banner(c.payloads, "MCP LIST TOOLS RESPONSE (INITIAL LOAD):", lines...)

	c.mu.Lock()
	c.tools = tools
	c.loaded = true
	c.mu.Unlock()

	c.log.Infof("Cached %d tools", len(tools))
	return nil
}

func (c *Catalog) Refresh(ctx context.Context, lister Lister) error {
	c.log.Info("Refreshing tools cache...")
	if err := c.Load(ctx, lister); err != nil {
		return err
	}
	c.log.Info("Tools cache refreshed successfully")
	return nil
}

func (c *Catalog) Cached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Tool(nil), c.tools...)
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tools))
	for _, tool := range c.tools {
		names = append(names, tool.Name)
	}
	return names
}

func (c *Catalog) Lookup(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tool := range c.tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// ToolDefinitions converts the cached tools into chat-completion functions.
func (c *Catalog) ToolDefinitions() []llm.ToolDefinition {
	return ToolDefinitions(c.Tools())
}

func ToolDefinitions(tools []Tool) []llm.ToolDefinition {
	definitions := make([]llm.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		definitions = append(definitions, llm.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.InputSchema,
		})
	}
	return definitions
}

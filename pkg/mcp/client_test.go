package mcp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcplab/mcp-examples/pkg/config"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		args      []string
		transport string
		expected  Target
		err       string
	}{
		{
			name:     "python script",
			path:     "./servers/calc.py",
			args:     []string{"--verbose"},
			expected: Target{Kind: TargetStdio, Command: "python", Args: []string{"./servers/calc.py", "--verbose"}},
		},
		{
			name:     "node script",
			path:     "build/index.js",
			expected: Target{Kind: TargetStdio, Command: "node", Args: []string{"build/index.js"}},
		},
		{
			name:     "go program",
			path:     "./cmd/server/main.go",
			expected: Target{Kind: TargetStdio, Command: "go", Args: []string{"run", "./cmd/server/main.go"}},
		},
		{
			name:     "scoped npm package",
			path:     "@modelcontextprotocol/server-everything",
			expected: Target{Kind: TargetStdio, Command: "npx", Args: []string{"@modelcontextprotocol/server-everything"}},
		},
		{
			name:     "bare name is an npm package",
			path:     "mcp-server-time",
			args:     []string{"--local-timezone", "UTC"},
			expected: Target{Kind: TargetStdio, Command: "npx", Args: []string{"mcp-server-time", "--local-timezone", "UTC"}},
		},
		{
			name:     "sse by default",
			path:     "http://localhost:8004/sse",
			expected: Target{Kind: TargetSSE, URL: "http://localhost:8004/sse"},
		},
		{
			name:      "streamable",
			path:      "https://example.com/mcp",
			transport: "streamable-http",
			expected:  Target{Kind: TargetStreamable, URL: "https://example.com/mcp"},
		},
		{
			name:      "unknown remote transport",
			path:      "https://example.com/mcp",
			transport: "websocket",
			err:       "unsupported remote transport: websocket",
		},
		{
			name: "unsupported script",
			path: "./server.rb",
			err:  "server script must be a .py, .js or .go file or npm package",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ResolveTarget(tt.path, tt.args, tt.transport)
			if tt.err != "" {
				require.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
			assert.Equal(t, tt.expected.Kind != TargetStdio, target.IsRemote())
		})
	}
}

func TestTargetFromServer(t *testing.T) {
	remote := TargetFromServer(config.Server{URL: "http://x/mcp", Transport: config.TransportStreamable, Headers: map[string]string{"A": "b"}})
	assert.Equal(t, Target{Kind: TargetStreamable, URL: "http://x/mcp", Headers: map[string]string{"A": "b"}}, remote)

	local := TargetFromServer(config.Server{Command: "calc", Args: []string{"-v"}, Transport: config.TransportStdio})
	assert.Equal(t, Target{Kind: TargetStdio, Command: "calc", Args: []string{"-v"}}, local)
}

func TestHeaderRoundTripper(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := &http.Client{Transport: &headerRoundTripper{
		base:    http.DefaultTransport,
		headers: map[string]string{"Authorization": "Bearer token", "Accept": "text/plain"},
	}}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "Bearer token", got.Get("Authorization"))
	assert.Equal(t, "application/json, text/event-stream", got.Get("Accept"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

type echoIn struct {
	Text string `json:"text"`
}

func echoServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "echo", Version: "test"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "Echoes text"}, func(_ context.Context, _ *mcp.CallToolRequest, in echoIn) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: in.Text}}}, nil, nil
	})
	return server
}

func TestRemoteClient(t *testing.T) {
	server := echoServer()
	getServer := func(*http.Request) *mcp.Server { return server }

	tests := []struct {
		name      string
		transport string
		handler   http.Handler
	}{
		{name: "sse", transport: "sse", handler: mcp.NewSSEHandler(getServer, nil)},
		{name: "streamable", transport: "streaming", handler: mcp.NewStreamableHTTPHandler(getServer, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var token atomic.Value
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if v := r.Header.Get("X-Token"); v != "" {
					token.Store(v)
				}
				tt.handler.ServeHTTP(w, r)
			}))
			defer srv.Close()

			t.Setenv("ECHO_TOKEN", "secret")
			client := NewRemoteMCPClient("echo", srv.URL, tt.transport, map[string]string{"X-Token": "${ECHO_TOKEN}"})

			ctx := t.Context()
			require.NoError(t, client.Initialize(ctx, false))
			require.EqualError(t, client.Initialize(ctx, false), "client already initialized")

			result, err := client.Session().CallTool(ctx, &mcp.CallToolParams{
				Name:      "echo",
				Arguments: map[string]any{"text": "hello"},
			})
			require.NoError(t, err)
			require.Len(t, result.Content, 1)
			assert.Equal(t, "hello", result.Content[0].(*mcp.TextContent).Text)
			assert.Equal(t, "secret", token.Load())

			require.NoError(t, client.Close())
			require.NoError(t, client.Close())
		})
	}
}

func TestSessionBeforeInitializePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewStdioCmdClient("x", "true", nil).Session()
	})
	assert.Panics(t, func() {
		NewRemoteMCPClient("x", "http://localhost", "sse", nil).Session()
	})
}

func TestTransportClient(t *testing.T) {
	ctx := t.Context()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	_, err := echoServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := NewTransportClient("echo", clientTransport)
	require.NoError(t, client.Initialize(ctx, false))

	var names []string
	for tool, err := range client.Session().Tools(ctx, nil) {
		require.NoError(t, err)
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"echo"}, names)

	require.NoError(t, client.Close())
}

func TestResultText(t *testing.T) {
	assert.Empty(t, ResultText(nil))

	result := &mcp.CallToolResult{Content: []mcp.Content{
		&mcp.TextContent{Text: "first"},
		&mcp.TextContent{Text: "second"},
	}}
	assert.Equal(t, "first\nsecond", ResultText(result))

	structured := &mcp.CallToolResult{StructuredContent: map[string]any{"sum": 5}}
	assert.Equal(t, `{"sum":5}`, ResultText(structured))

	image := &mcp.CallToolResult{Content: []mcp.Content{&mcp.ImageContent{MIMEType: "image/png", Data: []byte{1}}}}
	assert.Contains(t, ResultText(image), `"type":"image"`)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStdioClientForwardsStderr(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a shell")
	}

	old := childStderr
	t.Cleanup(func() { childStderr = old })

	for _, tt := range []struct {
		debug    bool
		expected string
	}{
		{debug: false, expected: "boom\n"},
		{debug: true, expected: "- crashy: boom\n"},
	} {
		var stderr lockedBuffer
		childStderr = &stderr

		client := NewStdioCmdClient("crashy", "sh", nil, "-c", "echo boom >&2; exit 1")
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
		err := client.Initialize(ctx, tt.debug)
		cancel()
		require.Error(t, err)

		assert.Eventually(t, func() bool {
			return stderr.String() == tt.expected
		}, 5*time.Second, 20*time.Millisecond, "debug=%v", tt.debug)
	}
}

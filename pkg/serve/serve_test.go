package serve

import (
	"context"
	"net"
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

type addIn struct {
	A int `json:"a"`
	B int `json:"b"`
}

func addServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "add", Version: "test"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "add", Description: "Adds"}, func(_ context.Context, _ *mcp.CallToolRequest, in addIn) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "ok"}}}, nil, nil
	})
	return server
}

func TestNormalizeTransport(t *testing.T) {
	for in, expected := range map[string]string{
		"":                TransportStdio,
		"stdio":           TransportStdio,
		"SSE":             TransportSSE,
		"streaming":       TransportStreaming,
		"http":            TransportStreaming,
		"streamable-http": TransportStreaming,
	} {
		got, err := NormalizeTransport(in)
		require.NoError(t, err)
		assert.Equal(t, expected, got, in)
	}

	_, err := NormalizeTransport("websocket")
	require.ErrorContains(t, err, "unknown transport")
}

func TestListen(t *testing.T) {
	tests := []struct {
		transport string
		path      string
	}{
		{transport: TransportSSE, path: "/sse"},
		{transport: TransportStreaming, path: "/mcp"},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(t.Context())
			done := make(chan error, 1)
			go func() {
				done <- Listen(ctx, addServer(), tt.transport, ln)
			}()

			base := "http://" + ln.Addr().String()
			require.Eventually(t, func() bool {
				resp, err := http.Get(base + "/health")
				if err != nil {
					return false
				}
				resp.Body.Close()
				return resp.StatusCode == http.StatusOK
			}, 5*time.Second, 20*time.Millisecond)

			noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}}
			resp, err := noRedirect.Get(base + "/")
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
			assert.Equal(t, tt.path, resp.Header.Get("Location"))

			client := mcpclient.NewRemoteMCPClient("add", base+tt.path, tt.transport, nil)
			require.NoError(t, client.Initialize(ctx, false))
			result, err := client.Session().CallTool(ctx, &mcp.CallToolParams{
				Name:      "add",
				Arguments: map[string]any{"a": 1, "b": 2},
			})
			require.NoError(t, err)
			assert.Equal(t, "ok", result.Content[0].(*mcp.TextContent).Text)
			require.NoError(t, client.Close())

			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("server did not stop")
			}
		})
	}
}

func TestListenFailureStopsWatcher(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	before := runtime.NumGoroutine()

	err = Listen(t.Context(), addServer(), TransportSSE, ln)
	require.ErrorIs(t, err, net.ErrClosed)

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 20*time.Millisecond)
}

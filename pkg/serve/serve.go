package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	TransportStdio     = "stdio"
	TransportSSE       = "sse"
	TransportStreaming = "streaming"
)

// NormalizeTransport accepts the spellings used by the clients for the
// streamable transport.
func NormalizeTransport(transport string) (string, error) {
	switch strings.ToLower(transport) {
	case "", TransportStdio:
		return TransportStdio, nil
	case TransportSSE:
		return TransportSSE, nil
	case TransportStreaming, "http", "streamable", "streamable-http":
		return TransportStreaming, nil
	default:
		return "", fmt.Errorf("unknown transport %q, expected stdio, sse or streaming", transport)
	}
}

// Run serves server over the given transport until ctx is done. port is used
// by the network transports only.
func Run(ctx context.Context, server *mcp.Server, transport string, port int) error {
	transport, err := NormalizeTransport(transport)
	if err != nil {
		return err
	}

	if transport == TransportStdio {
		logf("- Serving over stdio\n")
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	// Listen as early as possible to not lose client connections.
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	return Listen(ctx, server, transport, ln)
}

// Listen serves server over sse or streaming on an existing listener.
func Listen(ctx context.Context, server *mcp.Server, transport string, ln net.Listener) error {
	transport, err := NormalizeTransport(transport)
	if err != nil {
		return err
	}

	var health atomic.Bool
	getServer := func(*http.Request) *mcp.Server { return server }

	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(&health))

	switch transport {
	case TransportSSE:
		mux.Handle("/", redirectHandler("/sse"))
		mux.Handle("/sse", mcp.NewSSEHandler(getServer, nil))
		logf("> Serving SSE on http://%s/sse\n", ln.Addr())
	case TransportStreaming:
		mux.Handle("/", redirectHandler("/mcp"))
		mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(getServer, nil))
		logf("> Serving streamable HTTP on http://%s/mcp\n", ln.Addr())
	default:
		ln.Close()
		return fmt.Errorf("transport %s does not listen on a port", transport)
	}

	httpServer := &http.Server{
		Handler: mux,
	}
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_ = httpServer.Close()
		case <-stopped:
		}
	}()

	health.Store(true)
	err = httpServer.Serve(ln)
	if ctx.Err() != nil && (errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed)) {
		return nil
	}
	return err
}

func redirectHandler(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

func healthHandler(healthy *atomic.Bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

func logf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, a...)
}

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mcp_payloads.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0o644))

	var out syncBuffer
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- Payloads(ctx, path, &out) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching "+path)
	}, 5*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("MCP TOOL REQUEST PAYLOAD:\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "MCP TOOL REQUEST PAYLOAD:\n")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.NotContains(t, out.String(), "old line")
	assert.Contains(t, out.String(), "Stopped watching log file.")
}

func TestPayloadsCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "mcp_payloads.log")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.NoError(t, Payloads(ctx, path, &syncBuffer{}))
	assert.FileExists(t, path)
}

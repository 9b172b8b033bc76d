package mcp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcp-examples/pkg/config"
)

type Client interface {
	Initialize(ctx context.Context, debug bool) error
	Session() *mcp.ClientSession
	Close() error
}

type TargetKind string

const (
	TargetStdio      TargetKind = config.TransportStdio
	TargetSSE        TargetKind = config.TransportSSE
	TargetStreamable TargetKind = config.TransportStreamable
)

// Target is a resolved way of reaching an MCP server.
type Target struct {
	Kind    TargetKind
	Command string
	Args    []string
	URL     string
	Headers map[string]string
}

func (t Target) IsRemote() bool {
	return t.Kind != TargetStdio
}

var remoteURL = regexp.MustCompile(`^https?://`)

// ResolveTarget decides how to reach a server from a script path, an npm
// package name or an http(s) URL.
func ResolveTarget(pathOrURL string, serverArgs []string, transport string) (Target, error) {
	if remoteURL.MatchString(pathOrURL) {
		kind, err := config.NormalizeRemoteTransport(transport)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: TargetKind(kind), URL: pathOrURL}, nil
	}

	args := append([]string{pathOrURL}, serverArgs...)

	switch {
	case strings.HasPrefix(pathOrURL, "@") || !strings.Contains(pathOrURL, "/"):
		return Target{Kind: TargetStdio, Command: "npx", Args: args}, nil
	case strings.HasSuffix(pathOrURL, ".py"):
		return Target{Kind: TargetStdio, Command: "python", Args: args}, nil
	case strings.HasSuffix(pathOrURL, ".js"):
		return Target{Kind: TargetStdio, Command: "node", Args: args}, nil
	case strings.HasSuffix(pathOrURL, ".go"):
		return Target{Kind: TargetStdio, Command: "go", Args: append([]string{"run"}, args...)}, nil
	default:
		return Target{}, fmt.Errorf("server script must be a .py, .js or .go file or npm package")
	}
}

// TargetFromServer converts a servers file entry.
func TargetFromServer(server config.Server) Target {
	if server.URL != "" {
		return Target{Kind: TargetKind(server.Transport), URL: server.URL, Headers: server.Headers}
	}
	return Target{Kind: TargetStdio, Command: server.Command, Args: server.Args}
}

// NewClient returns a client for target. env is only used by stdio servers.
func NewClient(name string, target Target, env []string) Client {
	if target.IsRemote() {
		return NewRemoteMCPClient(name, target.URL, string(target.Kind), target.Headers)
	}
	return NewStdioCmdClient(name, target.Command, env, target.Args...)
}

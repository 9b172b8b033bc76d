package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

const (
	TransportStdio      = "stdio"
	TransportSSE        = "sse"
	TransportStreamable = "http"
)

// Servers is the content of a servers file, in YAML or in JSON with comments.
//
//	servers:
//	  math:
//	    command: go run ./cmd/mcp-server calculator
//	  dev-blog:
//	    command: mcp-server
//	    args: [devblog, --auth-token, "${DEV_BLOG_AUTH_TOKEN}"]
//	  demo:
//	    url: http://localhost:8004/sse
type Servers struct {
	Servers    map[string]Server `yaml:"servers,omitempty" json:"servers,omitempty"`
	MCPServers map[string]Server `yaml:"mcpServers,omitempty" json:"mcpServers,omitempty"`
}

type Server struct {
	Name      string            `yaml:"-" json:"-"`
	Command   string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args      []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env       map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Transport string            `yaml:"transport,omitempty" json:"transport,omitempty"`
	URL       string            `yaml:"url,omitempty" json:"url,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// ReadServers reads and parses a servers file. The format is picked from the extension.
func ReadServers(path string) ([]Server, error) {
	buf, err := ReadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading servers file %s: %w", path, err)
	}
	if buf == nil {
		return nil, fmt.Errorf("servers file %s not found", path)
	}

	return ParseServers(filepath.Ext(path), buf, os.Getenv)
}

// ParseServers parses content and returns the servers sorted by name.
// ${VAR} references are expanded with getenv.
func ParseServers(ext string, content []byte, getenv func(string) string) ([]Server, error) {
	var file Servers

	switch strings.ToLower(ext) {
	case ".json", ".jsonc", ".hujson":
		standard, err := hujson.Standardize(content)
		if err != nil {
			return nil, fmt.Errorf("parsing servers file: %w", err)
		}
		if err := json.Unmarshal(standard, &file); err != nil {
			return nil, fmt.Errorf("parsing servers file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(content, &file); err != nil {
			return nil, fmt.Errorf("parsing servers file: %w", err)
		}
	}

	entries := file.Servers
	if len(entries) == 0 {
		entries = file.MCPServers
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no servers configured")
	}

	var servers []Server
	for name, server := range entries {
		server.Name = name
		normalized, err := normalize(server, getenv)
		if err != nil {
			return nil, fmt.Errorf("server %s: %w", name, err)
		}
		servers = append(servers, normalized)
	}

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].Name < servers[j].Name
	})

	return servers, nil
}

func normalize(server Server, getenv func(string) string) (Server, error) {
	expand := func(value string) string {
		return os.Expand(value, getenv)
	}

	server.Command = strings.TrimSpace(expand(server.Command))
	server.URL = expand(server.URL)
	for i, arg := range server.Args {
		server.Args[i] = expand(arg)
	}
	for k, v := range server.Env {
		server.Env[k] = expand(v)
	}
	for k, v := range server.Headers {
		server.Headers[k] = expand(v)
	}

	switch {
	case server.Command != "" && server.URL != "":
		return Server{}, fmt.Errorf("command and url are mutually exclusive")
	case server.Command != "":
		if strings.ContainsAny(server.Command, " \t") {
			words, err := shlex.Split(server.Command)
			if err != nil {
				return Server{}, fmt.Errorf("splitting command: %w", err)
			}
			if len(words) == 0 {
				return Server{}, fmt.Errorf("either command or url is required")
			}
			server.Command = words[0]
			server.Args = append(words[1:], server.Args...)
		}
		if server.Transport == "" {
			server.Transport = TransportStdio
		}
		if server.Transport != TransportStdio {
			return Server{}, fmt.Errorf("transport %q requires a url", server.Transport)
		}
	case server.URL != "":
		transport, err := NormalizeRemoteTransport(server.Transport)
		if err != nil {
			return Server{}, err
		}
		server.Transport = transport
	default:
		return Server{}, fmt.Errorf("either command or url is required")
	}

	return server, nil
}

// NormalizeRemoteTransport maps the accepted spellings of a remote transport
// onto sse or http. An empty value means sse.
func NormalizeRemoteTransport(transport string) (string, error) {
	switch strings.ToLower(transport) {
	case "", "sse":
		return TransportSSE, nil
	case "http", "streamable", "streaming", "streamable-http":
		return TransportStreamable, nil
	default:
		return "", fmt.Errorf("unsupported remote transport: %s", transport)
	}
}

// Environ returns os.Environ() extended with the server's own variables.
func (s Server) Environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+s.Env[k])
	}
	return env
}

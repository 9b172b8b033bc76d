package config

import (
	"runtime/debug"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var Commit = sync.OnceValue(func() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
})

// Implementation describes one of our MCP peers during the handshake.
func Implementation(name string) *mcp.Implementation {
	return &mcp.Implementation{Name: name, Version: Version}
}

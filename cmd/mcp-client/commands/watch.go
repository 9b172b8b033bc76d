package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/pkg/logs"
	"github.com/mcplab/mcp-examples/pkg/watch"
)

func watchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the MCP payload log in real time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return watch.Payloads(cmd.Context(), filepath.Join(logDir(*opts), logs.PayloadLogFile), os.Stdout)
		},
	}
}

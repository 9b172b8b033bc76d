package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/cmd/mcp-client/tools"
	"github.com/mcplab/mcp-examples/pkg/config"
)

func toolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List/count/inspect/call the tools of an MCP server",
	}

	var (
		target tools.Target
		format string
	)
	cmd.PersistentFlags().StringVar(&target.Server, "server", "", "Server script, npm package or http(s) URL")
	cmd.PersistentFlags().StringSliceVar(&target.ServerArgs, "server-arg", nil, "Additional arguments passed to a stdio server")
	cmd.PersistentFlags().StringVar(&target.Transport, "transport", config.TransportSSE, "Transport used for http(s) URLs (sse|http)")
	cmd.PersistentFlags().BoolVar(&target.Verbose, "verbose", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&format, "format", "list", "Output format (json|list)")
	_ = cmd.MarkPersistentFlagRequired("server")

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tools",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tools.List(cmd.Context(), target, "list", "", format, os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Count tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tools.List(cmd.Context(), target, "count", "", format, os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <tool>",
		Short: "Inspect a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tools.List(cmd.Context(), target, "inspect", args[0], format, os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "call <tool> [key=value...]",
		Short: "Call a tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tools.Call(cmd.Context(), target, args, os.Stdout)
		},
	})

	return cmd
}

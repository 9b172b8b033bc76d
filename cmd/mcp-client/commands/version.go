package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/pkg/config"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Short: "Show the version information",
		Use:   "version",
		Args:  cobra.ExactArgs(0),
		// No .env is needed to print the version.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Version, config.Commit())
		},
	}
}

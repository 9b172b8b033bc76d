package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/pkg/chat"
	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
)

// Note: We use a custom help template to make it more brief.
const helpTemplate = `MCP client - chat with an LLM that calls the tools of MCP servers.
{{if .UseLine}}
Usage: {{.UseLine}}
{{end}}{{if .HasAvailableLocalFlags}}
Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableSubCommands}}
Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand)}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}
`

const chatExamples = `  - stdio server (npm):    mcp-client @playwright/mcp@latest
  - stdio server (python): mcp-client ./weather.py
  - stdio server with args: mcp-client ./dev_blog_server.py --auth-token YOUR_TOKEN
  - SSE server:            mcp-client http://localhost:8004/sse
  - streamable server:     mcp-client --transport http http://localhost:3000/mcp`

type rootOptions struct {
	envFiles  []string
	logDir    string
	model     string
	transport string
	debug     bool
}

// Root returns the root command. Without a subcommand it runs the chat loop
// against one server.
func Root(ctx context.Context) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:              "mcp-client <server_script_path_or_url> [server_args...]",
		Short:            "Chat with an LLM using the tools of an MCP server",
		Example:          chatExamples,
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		Args:             cobra.MinimumNArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(ctx)
			return config.LoadDotEnv(opts.envFiles...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), opts, args[0], args[1:])
		},
		Version: config.Version,
	}
	// Everything after the server is passed to the server.
	cmd.Flags().SetInterspersed(false)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetHelpTemplate(helpTemplate)
	cmd.Flags().BoolP("version", "v", false, "Print version information and quit")

	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Files to load environment variables from (default .env)")
	cmd.PersistentFlags().StringVar(&opts.logDir, "log-dir", "", "Directory of the log files (default $MCP_LOG_DIR or logs)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Forward the stderr of stdio servers")
	cmd.Flags().StringVar(&opts.model, "model", "", "Chat model (default $OPENAI_MODEL or "+config.DefaultChatModel+")")
	cmd.Flags().StringVar(&opts.transport, "transport", config.TransportSSE, "Transport used for http(s) URLs (sse|http)")

	cmd.AddCommand(toolsCommand())
	cmd.AddCommand(agentCommand(&opts))
	cmd.AddCommand(askCommand(&opts))
	cmd.AddCommand(demoCommand(&opts))
	cmd.AddCommand(watchCommand(&opts))
	cmd.AddCommand(versionCommand())

	return cmd
}

func runChat(ctx context.Context, opts rootOptions, pathOrURL string, serverArgs []string) error {
	provider := config.ProviderFromEnv(config.DefaultChatModel)
	if opts.model != "" {
		provider.Model = opts.model
	}
	if err := provider.Validate(); err != nil {
		return err
	}

	loggers, err := logs.Setup(logDir(opts), os.Stderr)
	if err != nil {
		return err
	}
	defer loggers.Close()

	model, err := llm.FromProvider(provider)
	if err != nil {
		return err
	}

	client := chat.New(model,
		chat.WithModelName(provider.Model),
		chat.WithProvider(provider.Name()),
		chat.WithLoggers(loggers),
		chat.WithDebug(opts.debug),
	)
	defer func() {
		_ = client.Close()
		fmt.Println("\nMCP Client Closed!")
	}()

	if err := client.Connect(ctx, pathOrURL, serverArgs, opts.transport); err != nil {
		return err
	}

	if err := client.ChatLoop(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func logDir(opts rootOptions) string {
	if opts.logDir != "" {
		return opts.logDir
	}
	return config.LogDir()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/interceptors"
	"github.com/mcplab/mcp-examples/pkg/serve"
	"github.com/mcplab/mcp-examples/pkg/servers/calculator"
	"github.com/mcplab/mcp-examples/pkg/servers/demo"
	"github.com/mcplab/mcp-examples/pkg/servers/devblog"
	"github.com/mcplab/mcp-examples/pkg/servers/images"
)

// Options are shared by every server command.
type Options struct {
	Transport    string
	Port         int
	LogCalls     bool
	BlockSecrets bool
	Interceptors []string
}

func Root(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:              "mcp-server",
		Short:            "Run one of the example MCP servers",
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(ctx)
			return config.LoadDotEnv()
		},
		Version: config.Version,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(serverCommand("calculator", "Calculator with sum, subtract and multiply tools", calculator.NewCalculator))
	cmd.AddCommand(serverCommand("fast-calculator", "Calculator with x/y sum and subtract tools", calculator.NewFast))
	cmd.AddCommand(serverCommand("simple-calculator", "Calculator with add, subtract, multiply and divide tools", calculator.NewSimple))
	cmd.AddCommand(serverCommand("minimal-calculator", "Calculator with a single sum tool", calculator.NewMinimal))
	cmd.AddCommand(serverCommand("images", "Lorem Picsum image URL generator", images.NewServer))
	cmd.AddCommand(devblogCommand())
	cmd.AddCommand(sseDemoCommand())

	return cmd
}

func (o *Options) register(cmd *cobra.Command, transport string, port int) {
	cmd.Flags().StringVar(&o.Transport, "transport", transport, "stdio, sse or streaming")
	cmd.Flags().IntVar(&o.Port, "port", port, "TCP port to listen on for sse and streaming")
	cmd.Flags().BoolVar(&o.LogCalls, "log-calls", true, "Log tool calls on stderr")
	cmd.Flags().BoolVar(&o.BlockSecrets, "block-secrets", false, "Reject tool calls whose arguments or results carry secrets")
	cmd.Flags().StringArrayVar(&o.Interceptors, "interceptor", nil, "Tool call interceptor, when:type:argument (before|after, exec|http)")
}

func serverCommand(name, short string, newServer func() *mcp.Server) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), name, newServer(), opts)
		},
	}
	opts.register(cmd, serve.TransportStdio, 8000)

	return cmd
}

func devblogCommand() *cobra.Command {
	var (
		opts      Options
		authToken string
		baseURL   string
	)

	cmd := &cobra.Command{
		Use:   "devblog",
		Short: "dev.to blog search and publishing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if authToken == "" {
				authToken = os.Getenv("DEV_TO_AUTH_TOKEN")
			}
			if authToken == "" {
				return errors.New("an auth token is required, use --auth-token or DEV_TO_AUTH_TOKEN")
			}

			client := devblog.NewClient(authToken)
			client.BaseURL = baseURL

			return Run(cmd.Context(), "devblog", devblog.NewServer(client), opts)
		},
	}
	opts.register(cmd, serve.TransportStdio, 8000)
	cmd.Flags().StringVar(&authToken, "auth-token", "", "dev.to API key (default $DEV_TO_AUTH_TOKEN)")
	cmd.Flags().StringVar(&baseURL, "base-url", devblog.DefaultBaseURL, "dev.to API base URL")

	return cmd
}

func sseDemoCommand() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "sse-demo",
		Short: "add_numbers demo served over SSE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), "demo", demo.NewServer(), opts)
		},
	}
	opts.register(cmd, serve.TransportSSE, demo.DefaultPort)

	return cmd
}

// Run installs the middleware chain on server and serves it.
func Run(ctx context.Context, name string, server *mcp.Server, opts Options) error {
	chain, err := interceptors.Parse(opts.Interceptors)
	if err != nil {
		return err
	}
	server.AddReceivingMiddleware(interceptors.Callbacks(name, opts.LogCalls, opts.BlockSecrets, chain)...)

	fmt.Fprintf(os.Stderr, "- Starting %s MCP server...\n", name)
	return serve.Run(ctx, server, opts.Transport, opts.Port)
}

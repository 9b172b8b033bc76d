package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcplab/mcp-examples/pkg/agent"
	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
)

type agentOptions struct {
	servers  string
	model    string
	maxSteps int
}

func (o *agentOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.servers, "config", "servers.yaml", "Servers file (YAML, or JSON with comments)")
	cmd.Flags().StringVar(&o.model, "model", "", "Chat model (default $OPENAI_MODEL or "+config.DefaultAgentModel+")")
	cmd.Flags().IntVar(&o.maxSteps, "max-steps", agent.DefaultMaxSteps, "Maximum number of model calls per question")
}

func agentCommand(root *rootOptions) *cobra.Command {
	var opts agentOptions

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Interactive agent using the tools of every configured server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := logs.NewStepLogger(logDir(*root), os.Stdout)
			if err != nil {
				return err
			}
			defer steps.Close()

			steps.Startup()
			if err := withAgent(cmd.Context(), *root, opts, steps, func(a *agent.Agent) error {
				return a.ChatLoop(cmd.Context(), os.Stdin, os.Stdout)
			}); err != nil {
				steps.Error("Application failed", err)
				return err
			}
			steps.Completion()

			return nil
		},
	}
	opts.register(cmd)

	return cmd
}

func askCommand(root *rootOptions) *cobra.Command {
	var opts agentOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question to the agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAgent(cmd.Context(), *root, opts, nil, func(a *agent.Agent) error {
				answer, err := a.Ask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), answer)
				return nil
			})
		},
	}
	opts.register(cmd)

	return cmd
}

func demoCommand(root *rootOptions) *cobra.Command {
	var opts agentOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Ask the demo questions to the agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAgent(cmd.Context(), *root, opts, nil, func(a *agent.Agent) error {
				a.Demo(cmd.Context(), cmd.OutOrStdout())
				return nil
			})
		},
	}
	opts.register(cmd)

	return cmd
}

// withAgent reads the servers file, connects every server and runs fn. A nil
// steps logger keeps the step log out of the console.
func withAgent(ctx context.Context, root rootOptions, opts agentOptions, steps *logs.StepLogger, fn func(*agent.Agent) error) error {
	if steps == nil {
		var err error
		steps, err = logs.NewStepLogger(logDir(root), nil)
		if err != nil {
			return err
		}
		defer steps.Close()
	}

	steps.Step(1, "Loading configuration...")
	provider := config.ProviderFromEnv(config.DefaultAgentModel)
	if opts.model != "" {
		provider.Model = opts.model
	}
	if err := provider.Validate(); err != nil {
		return err
	}

	servers, err := config.ReadServers(opts.servers)
	if err != nil {
		return err
	}
	steps.Success("Loaded %d servers from %s", len(servers), opts.servers)

	loggers, err := logs.Setup(logDir(root), os.Stderr)
	if err != nil {
		return err
	}
	defer loggers.Close()

	model, err := llm.FromProvider(provider)
	if err != nil {
		return err
	}

	a := agent.New(model,
		agent.WithModelName(provider.Model),
		agent.WithMaxSteps(opts.maxSteps),
		agent.WithStepLogger(steps),
		agent.WithLoggers(loggers),
		agent.WithDebug(root.debug),
	)
	defer a.Close()

	if err := a.Start(ctx, servers); err != nil {
		return err
	}

	return fn(a)
}

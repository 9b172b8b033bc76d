package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mcplab/mcp-examples/pkg/llm"
)

// ChatLoop reads queries from in until "quit", end of input or ctx is done.
// Errors are reported and the loop goes on.
func (c *Client) ChatLoop(ctx context.Context, in io.Reader) error {
	var history []llm.Message

	fmt.Fprintln(c.out, "Type your queries or 'quit' to exit.")
	fmt.Fprintln(c.out, "Type 'refresh' to clear conversation history.")
	fmt.Fprintln(c.out, "Type 'refresh-tools' to reload tools from the server.")
	fmt.Fprintf(c.out, "Using %s as the LLM provider.\n", c.provider)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "\nQuery: ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(query) {
		case "quit":
			return nil
		case "refresh":
			history = nil
			fmt.Fprintln(c.out, "Conversation history cleared.")
			continue
		case "refresh-tools":
			if err := c.RefreshTools(ctx); err != nil {
				fmt.Fprintf(c.out, "Failed to refresh tools cache: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Tools cache refreshed successfully.")
			fmt.Fprintf(c.out, "Available tools: %v\n", c.ToolNames())
			continue
		}

		response, messages, err := c.ProcessQuery(ctx, query, history)
		if err != nil {
			c.loggers.Client.Errorf("Error in chat loop: %v", err)
			fmt.Fprintf(c.out, "Error: %v\n", err)
			continue
		}
		history = messages
		fmt.Fprintf(c.out, "\nResponse: %s\n", response)
	}
}

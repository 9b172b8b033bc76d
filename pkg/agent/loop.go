package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
)

// DemoQuestions are asked by Demo.
var DemoQuestions = []string{
	"What is 25 + 37?",
	"Calculate the square root of 144",
	"What is 15 * 8 + 20?",
}

// Demo asks every demo question, each one in a fresh conversation.
func (a *Agent) Demo(ctx context.Context, out io.Writer) {
	fmt.Fprintln(out, "Minimal MCP Client Demo")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	for i, question := range DemoQuestions {
		fmt.Fprintf(out, "\nQuestion %d: %s\n", i+1, question)
		answer, err := a.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Answer: %s\n", answer)
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 40))
	fmt.Fprintln(out, "Demo completed!")
}

// ChatLoop runs an interactive session until quit, end of input or ctx is done.
func (a *Agent) ChatLoop(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(out, "INTERACTIVE MCP AGENT CHAT")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "Type your questions and press Enter")
	fmt.Fprintln(out, "Type 'quit', 'exit', or 'q' to stop")
	fmt.Fprintln(out, "Type 'help' for available commands")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	var history []llm.Message
	queryNumber := 1
	scanner := bufio.NewScanner(in)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\n\nChat interrupted by user (Ctrl+C)")
			a.steps.SessionEnd("interrupt")
			return nil
		}

		fmt.Fprintf(out, "\nQuery #%d: ", queryNumber)
		if !scanner.Scan() {
			a.steps.SessionEnd("end of input")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "\nGoodbye! Chat session ended.")
			a.steps.SessionEnd("user")
			return nil
		case "help":
			fmt.Fprintln(out, "\nAvailable commands:")
			fmt.Fprintln(out, "  - Type any question to get an answer")
			fmt.Fprintln(out, "  - 'quit', 'exit', 'q' - End the chat")
			fmt.Fprintln(out, "  - 'help' - Show this help message")
			continue
		case "":
			fmt.Fprintln(out, "Please enter a question or command")
			continue
		}

		a.steps.QueryStart(queryNumber, input, len(history))
		a.steps.Info("Sending request to agent with conversation history...")
		messages, err := a.Run(ctx, history, input)
		if err != nil {
			a.steps.Error("Failed to execute query", err)
			a.steps.ChatError(err)
			fmt.Fprintf(out, "\nError processing query: %v\n", err)
			continue
		}
		history = messages
		a.steps.QuerySuccess(len(history))

		a.analyze(queryNumber, messages)

		answer := finalAnswer(messages)
		a.steps.FinalAnswer(queryNumber, answer)
		fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
		fmt.Fprintf(out, "RESULT SUMMARY #%d:\n", queryNumber)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "Question: %s\n", input)
		fmt.Fprintf(out, "Answer: %s\n", answer)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		a.steps.QuerySeparation()

		queryNumber++
	}
}

func (a *Agent) analyze(queryNumber int, messages []llm.Message) {
	a.steps.ResponseAnalysis(queryNumber, "agent run", len(messages))
	a.steps.ConversationFlowHeader()

	toolNames := map[string]string{}
	for i, m := range messages {
		detail := logs.MessageDetail{Kind: kind(m.Role), Content: m.Content}
		for _, call := range m.ToolCalls {
			toolNames[call.ID] = call.Name
			detail.ToolCalls = append(detail.ToolCalls, fmt.Sprintf("%s(%s)", call.Name, call.Arguments))
		}
		if m.Role == llm.RoleTool {
			detail.Content = ""
			detail.ToolName = toolNames[m.ToolCallID]
			detail.ToolResult = m.Content
		}
		a.steps.Message(i+1, detail)
	}
}

func kind(role string) string {
	switch role {
	case llm.RoleSystem:
		return "SystemMessage"
	case llm.RoleUser:
		return "HumanMessage"
	case llm.RoleAssistant:
		return "AIMessage"
	case llm.RoleTool:
		return "ToolMessage"
	default:
		return role
	}
}

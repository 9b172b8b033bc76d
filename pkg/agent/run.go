package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcplab/mcp-examples/pkg/catalog"
	"github.com/mcplab/mcp-examples/pkg/llm"
	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

const noResponse = "No response received"

// Run answers query given the conversation so far. The model is called until
// it answers without asking for tools. It returns the whole updated
// conversation, the final answer being the last message.
func (a *Agent) Run(ctx context.Context, history []llm.Message, query string) ([]llm.Message, error) {
	var messages []llm.Message
	if len(history) == 0 || history[0].Role != llm.RoleSystem {
		messages = append(messages, llm.SystemMessage(a.systemPrompt))
	}
	messages = append(messages, history...)
	messages = append(messages, llm.UserMessage(query))

	tools := catalog.ToolDefinitions(a.Tools())

	for range a.maxSteps {
		resp, err := a.model.Complete(ctx, llm.Request{
			Model:    a.modelName,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}

		reply := resp.Message
		messages = append(messages, llm.AssistantMessage(reply.Content, reply.ToolCalls...))
		if len(reply.ToolCalls) == 0 {
			return messages, nil
		}

		for _, call := range reply.ToolCalls {
			messages = append(messages, llm.ToolMessage(call.ID, a.callTool(ctx, call)))
		}
	}

	return nil, fmt.Errorf("agent stopped after %d steps", a.maxSteps)
}

// callTool executes one call. Failures are returned to the model as the
// tool output so it can recover.
func (a *Agent) callTool(ctx context.Context, call llm.ToolCall) string {
	conn, ok := a.route(call.Name)
	if !ok {
		return fmt.Sprintf("Error: %s is not a valid tool", call.Name)
	}

	var arguments map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &arguments); err != nil {
			return fmt.Sprintf("Error: invalid arguments for tool %s: %v", call.Name, err)
		}
	}

	a.loggers.Client.Debugf("Calling tool %s on server %s with args %v", call.Name, conn.name, arguments)
	result, err := mcpclient.CallTool(ctx, conn.client.Session(), conn.name, call.Name, arguments)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	return mcpclient.ResultText(result)
}

// Ask answers a single question with no prior conversation.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	messages, err := a.Run(ctx, nil, question)
	if err != nil {
		return "", err
	}
	return finalAnswer(messages), nil
}

func finalAnswer(messages []llm.Message) string {
	if len(messages) == 0 || messages[len(messages)-1].Content == "" {
		return noResponse
	}
	return messages[len(messages)-1].Content
}

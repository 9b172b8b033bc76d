package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcplab/mcp-examples/pkg/llm"
	"github.com/mcplab/mcp-examples/pkg/logs"
	mcpclient "github.com/mcplab/mcp-examples/pkg/mcp"
)

// ProcessQuery runs one query against the model. When the model asks for
// tools, they are called on the server and the model is asked a second time,
// without tools, to produce the answer. It returns the text shown to the user
// and the updated conversation.
func (c *Client) ProcessQuery(ctx context.Context, query string, previous []llm.Message) (string, []llm.Message, error) {
	if c.session == nil {
		return "", nil, ErrNotConnected
	}
	if !c.catalog.Cached() {
		return "", nil, ErrToolsNotCached
	}

	tools := c.catalog.ToolDefinitions()
	messages := append(append([]llm.Message(nil), previous...), llm.UserMessage(query))

	logs.Banner(c.loggers.Payloads, "OPENAI REQUEST PAYLOAD:",
		"Model: "+c.modelName,
		"Messages: "+logs.JSON(messages),
		"Tools: "+logs.JSON(tools),
	)
	c.loggers.Client.Debugf("Messages sent to OpenAI: %v", messages)

	fmt.Fprintf(c.out, "Sending query to %s...\n", c.modelName)
	c.loggers.Client.Infof("Sending query to %s...", c.modelName)

	resp, err := c.model.Complete(ctx, llm.Request{
		Model:    c.modelName,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return "", nil, fmt.Errorf("chat completion: %w", err)
	}
	reply := resp.Message

	logs.Banner(c.loggers.Payloads, "OPENAI RESPONSE PAYLOAD:",
		"Content: "+reply.Content,
		"Tool Calls: "+logs.JSON(reply.ToolCalls),
	)

	if len(reply.ToolCalls) == 0 {
		messages = append(messages, llm.AssistantMessage(reply.Content))
		return reply.Content, messages, nil
	}

	text := []string{reply.Content}
	messages = append(messages, llm.AssistantMessage(reply.Content, reply.ToolCalls...))

	for _, call := range reply.ToolCalls {
		var arguments map[string]any
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &arguments); err != nil {
				return "", nil, fmt.Errorf("decoding arguments of tool %s: %w", call.Name, err)
			}
		}

		logs.Banner(c.loggers.Payloads, "MCP TOOL REQUEST PAYLOAD:",
			"Tool Name: "+call.Name,
			"Tool Arguments: "+logs.JSON(arguments),
		)
		c.loggers.Client.Debugf("Calling tool %s with args %v...", call.Name, arguments)
		text = append(text, fmt.Sprintf("[Calling tool %s with args %v]", call.Name, arguments))

		result, err := mcpclient.CallTool(ctx, c.session, "server", call.Name, arguments)
		if err != nil {
			return "", nil, fmt.Errorf("calling tool %s: %w", call.Name, err)
		}

		logs.Banner(c.loggers.Payloads, "MCP TOOL RESPONSE PAYLOAD:",
			fmt.Sprintf("Result Meta: %v", result.Meta),
			"Result Content: "+logs.JSON(result.Content),
			fmt.Sprintf("Is Error: %t", result.IsError),
		)

		rendered := mcpclient.ResultText(result)
		text = append(text, fmt.Sprintf("[tool results: %s]", rendered))
		messages = append(messages, llm.ToolMessage(call.ID, rendered))
	}

	c.loggers.Client.Debug("Getting next response from OpenAI...")
	next, err := c.model.Complete(ctx, llm.Request{
		Model:    c.modelName,
		Messages: messages,
	})
	if err != nil {
		return "", nil, fmt.Errorf("chat completion: %w", err)
	}
	c.loggers.Client.Debugf("Response from OpenAI: %s", next.Message.Content)

	text = append(text, next.Message.Content)
	messages = append(messages, llm.AssistantMessage(next.Message.Content))

	return strings.Join(text, "\n"), messages, nil
}

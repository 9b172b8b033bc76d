package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"github.com/mcplab/mcp-examples/pkg/config"
	"github.com/mcplab/mcp-examples/pkg/telemetry"
)

// AzOpenAI talks to OpenAI or to an Azure OpenAI deployment.
type AzOpenAI struct {
	client *azopenai.Client
}

// NewOpenAI returns a client for the OpenAI API, or any compatible endpoint.
func NewOpenAI(baseURL, apiKey string, options *azopenai.ClientOptions) (*AzOpenAI, error) {
	if baseURL == "" {
		baseURL = config.DefaultOpenAIURL
	}
	client, err := azopenai.NewClientForOpenAI(baseURL, azcore.NewKeyCredential(apiKey), options)
	if err != nil {
		return nil, fmt.Errorf("error creating OpenAI client: %w", err)
	}
	return &AzOpenAI{client: client}, nil
}

// NewAzure returns a client for an Azure OpenAI resource. Request.Model is the deployment name.
func NewAzure(endpoint, apiKey string, options *azopenai.ClientOptions) (*AzOpenAI, error) {
	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), options)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &AzOpenAI{client: client}, nil
}

// FromProvider picks OpenAI or Azure OpenAI.
func FromProvider(p config.Provider) (*AzOpenAI, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.IsAzure() {
		return NewAzure(p.AzureEndpoint, p.AzureKey, nil)
	}
	return NewOpenAI(p.OpenAIBaseURL, p.OpenAIKey, nil)
}

func (c *AzOpenAI) Complete(ctx context.Context, req Request) (_ *Response, err error) {
	ctx, span := telemetry.StartLLMSpan(ctx, req.Model, len(req.Tools))
	defer func() {
		telemetry.RecordLLMRequest(ctx, span, req.Model, err)
		span.End()
	}()

	messages, err := toRequestMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	options := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(req.Model),
		Messages:       messages,
	}
	for _, tool := range req.Tools {
		definition, err := toToolDefinition(tool)
		if err != nil {
			return nil, err
		}
		options.Tools = append(options.Tools, definition)
	}

	resp, err := c.client.GetChatCompletions(ctx, options, nil)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, errors.New("no completion received from LLM")
	}

	return &Response{Message: fromResponseMessage(resp.Choices[0].Message)}, nil
}

func toRequestMessages(messages []Message) ([]azopenai.ChatRequestMessageClassification, error) {
	var out []azopenai.ChatRequestMessageClassification

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, &azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(m.Content),
			})
		case RoleUser:
			out = append(out, &azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(m.Content),
			})
		case RoleAssistant:
			msg := &azopenai.ChatRequestAssistantMessage{
				Content: azopenai.NewChatRequestAssistantMessageContent(m.Content),
			}
			for _, call := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, &azopenai.ChatCompletionsFunctionToolCall{
					ID:   to.Ptr(call.ID),
					Type: to.Ptr("function"),
					Function: &azopenai.FunctionCall{
						Name:      to.Ptr(call.Name),
						Arguments: to.Ptr(call.Arguments),
					},
				})
			}
			out = append(out, msg)
		case RoleTool:
			out = append(out, &azopenai.ChatRequestToolMessage{
				Content:    azopenai.NewChatRequestToolMessageContent(m.Content),
				ToolCallID: to.Ptr(m.ToolCallID),
			})
		default:
			return nil, fmt.Errorf("unknown message role: %s", m.Role)
		}
	}

	return out, nil
}

func toToolDefinition(tool ToolDefinition) (*azopenai.ChatCompletionsFunctionToolDefinition, error) {
	parameters := tool.Parameters
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	schema, err := json.Marshal(parameters)
	if err != nil {
		return nil, fmt.Errorf("marshalling parameters of tool %s: %w", tool.Name, err)
	}

	return &azopenai.ChatCompletionsFunctionToolDefinition{
		Type: to.Ptr("function"),
		Function: &azopenai.ChatCompletionsFunctionToolDefinitionFunction{
			Name:        to.Ptr(tool.Name),
			Description: to.Ptr(tool.Description),
			Parameters:  schema,
		},
	}, nil
}

func fromResponseMessage(msg *azopenai.ChatResponseMessage) Message {
	out := Message{Role: RoleAssistant}
	if msg.Content != nil {
		out.Content = *msg.Content
	}

	for _, call := range msg.ToolCalls {
		fn, ok := call.(*azopenai.ChatCompletionsFunctionToolCall)
		if !ok || fn.Function == nil {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        deref(fn.ID),
			Name:      deref(fn.Function.Name),
			Arguments: deref(fn.Function.Arguments),
		})
	}

	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

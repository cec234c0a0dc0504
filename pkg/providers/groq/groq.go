// Package groq implements modeladapter.Completer for Groq's hosted models
// using the OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/content"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/modeladapter/usage"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
)

// DefaultBaseURL is the base URL for Groq's OpenAI-compatible API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter sends chat completions to the Groq API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter with the given API key and HTTP client.
// A nil client falls back to the adapter's default client.
func New(apiKey string, client *http.Client) *Adapter {
	return &Adapter{
		ModelAdapter: modeladapter.New(DefaultBaseURL, modeladapter.Auth{Key: apiKey}, client),
	}
}

// Complete sends a conversation to the Groq chat completions endpoint and
// returns the assistant's reply. When tools are supplied, tool choice is left
// to the model ("auto").
func (g *Adapter) Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error) {
	req := chatRequest{
		Model:       g.Name,
		Messages:    convertMessages(c),
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
	}

	if len(tools) > 0 {
		req.ToolChoice = "auto"
		for _, t := range tools {
			schema := t.InputSchema
			if schema == nil {
				schema = json.RawMessage(`{"type":"object"}`)
			}

			req.Tools = append(req.Tools, apiTool{
				Type: "function",
				Function: apiToolDef{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  schema,
				},
			})
		}
	}

	var resp chatResponse
	if err := g.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("groq: %w", err)
	}

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("groq: empty choices in response")
	}

	g.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	return convertResponse(resp.Choices[0].Message), nil
}

// API request/response types.

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Tools       []apiTool    `json:"tools,omitempty"`
	ToolChoice  string       `json:"tool_choice,omitempty"`
}

type apiMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	ToolCalls  []apiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type apiToolCall struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Function apiFunction `json:"function"`
}

type apiFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiTool struct {
	Type     string     `json:"type"`
	Function apiToolDef `json:"function"`
}

type apiToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Choices []choice `json:"choices"`
	Usage   apiUsage `json:"usage"`
}

type choice struct {
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// convertMessages transforms a Chat into the API message format. Tool-result
// messages become one API message per result so every tool_call_id is echoed
// back individually.
func convertMessages(c *chat.Chat) []apiMessage {
	var msgs []apiMessage

	c.Each(func(_ int, m message.Message) bool {
		switch m.Role {
		case role.System, role.User:
			msgs = append(msgs, apiMessage{
				Role:    m.Role.String(),
				Content: m.TextContent(),
			})
		case role.Assistant:
			am := apiMessage{
				Role:    role.Assistant.String(),
				Content: m.TextContent(),
			}

			for _, tc := range m.ToolCalls() {
				am.ToolCalls = append(am.ToolCalls, apiToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: apiFunction{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}

			msgs = append(msgs, am)
		case role.Tool:
			for _, tr := range m.ToolResults() {
				msgs = append(msgs, apiMessage{
					Role:       role.Tool.String(),
					Content:    tr.Content,
					ToolCallID: tr.ToolCallID,
				})
			}
		}

		return true
	})

	return msgs
}

// convertResponse transforms an API message into a chats Message.
func convertResponse(am apiMessage) message.Message {
	var parts []content.Part

	if am.Content != "" {
		parts = append(parts, content.Text{Text: am.Content})
	}

	for _, tc := range am.ToolCalls {
		parts = append(parts, content.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return message.New(role.Assistant, parts...)
}

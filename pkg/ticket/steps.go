package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
)

// Step tool names. These are the keys the processor records results under.
const (
	ToolAnalyze  = "analyze_ticket"
	ToolClassify = "classify_ticket"
	ToolExtract  = "extract_entities"
	ToolRespond  = "generate_response"
)

// NewToolBox builds the static registry of the four pipeline steps. Each
// step is remote-backed: its handler sends one completion to c with a fixed
// system prompt and returns the model's text verbatim. Output conformance to
// the documented JSON shapes is requested in the prompts only; nothing is
// validated locally.
func NewToolBox(c modeladapter.Completer) *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		analyzeTool(c),
		classifyTool(c),
		extractTool(c),
		respondTool(c),
	)
	return tb
}

func analyzeTool(c modeladapter.Completer) toolbox.Tool {
	return toolbox.Tool{
		Name:        ToolAnalyze,
		Description: "Analyze a customer support ticket to understand intent, sentiment, and urgency.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"ticket_text": {
					"type": "string",
					"description": "The raw text of the customer support ticket."
				}
			},
			"required": ["ticket_text"]
		}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				TicketText string `json:"ticket_text"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("ticket: %s arguments: %w", ToolAnalyze, err)
			}

			return ask(ctx, c, analyzeSystemPrompt, args.TicketText)
		},
	}
}

func classifyTool(c modeladapter.Completer) toolbox.Tool {
	return toolbox.Tool{
		Name:        ToolClassify,
		Description: "Classify the ticket into a department and assign a priority level.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"ticket_text": {
					"type": "string",
					"description": "The raw text of the customer support ticket."
				},
				"analysis": {
					"type": "string",
					"description": "Previous analysis summary of the ticket."
				}
			},
			"required": ["ticket_text", "analysis"]
		}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				TicketText string `json:"ticket_text"`
				Analysis   string `json:"analysis"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("ticket: %s arguments: %w", ToolClassify, err)
			}

			user := fmt.Sprintf("Ticket:\n%s\n\nAnalysis:\n%s", args.TicketText, args.Analysis)
			return ask(ctx, c, classifySystemPrompt, user)
		},
	}
}

func extractTool(c modeladapter.Completer) toolbox.Tool {
	return toolbox.Tool{
		Name:        ToolExtract,
		Description: "Extract key entities such as product names, order IDs, dates, and customer info from the ticket.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"ticket_text": {
					"type": "string",
					"description": "The raw text of the customer support ticket."
				}
			},
			"required": ["ticket_text"]
		}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				TicketText string `json:"ticket_text"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("ticket: %s arguments: %w", ToolExtract, err)
			}

			return ask(ctx, c, extractSystemPrompt, args.TicketText)
		},
	}
}

func respondTool(c modeladapter.Completer) toolbox.Tool {
	return toolbox.Tool{
		Name:        ToolRespond,
		Description: "Generate an appropriate customer-facing reply or escalation note.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"ticket_text": {
					"type": "string",
					"description": "The raw text of the customer support ticket."
				},
				"analysis": {
					"type": "string",
					"description": "Analysis summary."
				},
				"classification": {
					"type": "string",
					"description": "Classification result (department + priority)."
				},
				"entities": {
					"type": "string",
					"description": "Extracted entities from the ticket."
				}
			},
			"required": ["ticket_text", "analysis", "classification", "entities"]
		}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				TicketText     string `json:"ticket_text"`
				Analysis       string `json:"analysis"`
				Classification string `json:"classification"`
				Entities       string `json:"entities"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("ticket: %s arguments: %w", ToolRespond, err)
			}

			user := fmt.Sprintf("Ticket:\n%s\n\nAnalysis:\n%s\n\nClassification:\n%s\n\nEntities:\n%s",
				args.TicketText, args.Analysis, args.Classification, args.Entities)
			return ask(ctx, c, respondSystemPrompt, user)
		},
	}
}

// ask performs a one-shot system+user completion against c and returns the
// reply's trimmed text.
func ask(ctx context.Context, c modeladapter.Completer, system, user string) (string, error) {
	conv := chat.New(
		message.NewText(role.System, system),
		message.NewText(role.User, user),
	)

	reply, err := c.Complete(ctx, conv, nil)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply.TextContent()), nil
}

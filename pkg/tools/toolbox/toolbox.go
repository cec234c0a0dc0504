// Package toolbox provides a registry of executable tools. A ToolBox lists
// its tools in registration order, so tool descriptors reach the provider in
// the order the workflow documents them.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deskwise/ticketrouter/pkg/chats/content"
)

// ToolBox holds a set of named tools. It preserves registration order.
type ToolBox struct {
	order []string
	tools map[string]Tool
}

// New creates an empty ToolBox.
func New() *ToolBox {
	return &ToolBox{tools: make(map[string]Tool)}
}

// Register adds one or more tools. Re-registering a name replaces the tool
// but keeps its original position.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		if _, exists := tb.tools[t.Name]; !exists {
			tb.order = append(tb.order, t.Name)
		}
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools in registration order.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.order))
	for _, name := range tb.order {
		result = append(result, tb.tools[name])
	}
	return result
}

// Call executes a tool call and returns a ToolResult echoing the call's ID.
// Unknown tool names and handler errors produce an error-shaped JSON payload
// rather than a hard failure, so one bad call cannot abort a whole run.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    errPayload(fmt.Sprintf("unknown tool: %s", tc.Name)),
			IsError:    true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    errPayload(err.Error()),
			IsError:    true,
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Content:    result,
	}
}

// errPayload wraps msg in a JSON error object so error results stay parseable
// alongside the JSON the tools normally return.
func errPayload(msg string) string {
	b, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	if err != nil {
		return fmt.Sprintf("{\"error\":%q}", msg)
	}
	return string(b)
}

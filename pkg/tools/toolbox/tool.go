package toolbox

import (
	"context"
	"encoding/json"
)

// Handler executes a tool with the given JSON argument object and returns a
// text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is an executable tool with a name, description, JSON Schema for its
// arguments, and a handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

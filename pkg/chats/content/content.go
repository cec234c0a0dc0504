// Package content defines the content parts that make up LLM messages.
package content

// Part is a piece of content within a message.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// ToolCall is an assistant's request to invoke a named tool. Arguments holds
// the raw JSON argument string as sent by the provider; it is not parsed
// until a handler consumes it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (tc ToolCall) PartKind() string { return "tool_call" }

// ToolResult holds the output of a tool invocation. ToolCallID must echo the
// ID of the ToolCall it answers so the provider can pair them up.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

func (tr ToolResult) PartKind() string { return "tool_result" }

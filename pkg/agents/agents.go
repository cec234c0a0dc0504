// Package agents defines the Agent interface and AgentBase, which ties a
// model adapter, a toolbox, and a chat together into the plumbing every
// agent loop needs.
package agents

import (
	"context"

	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/content"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
)

// Agent is implemented by all agent types. Run drives the agent's execution
// loop and returns the final message.
type Agent interface {
	Run(ctx context.Context) (message.Message, error)
}

// AgentBase provides shared functionality for agent types: Complete sends
// the chat to the adapter, CallTools executes a reply's tool calls. Embed it
// in concrete agent structs.
// AgentBase is not safe for concurrent use; callers must synchronize
// externally.
type AgentBase struct {
	Name    string
	Adapter modeladapter.Completer
	Tools   *toolbox.ToolBox
	Chat    *chat.Chat
}

// NewAgentBase creates an AgentBase with the given name, adapter, chat, and
// toolbox. A nil toolbox means the agent advertises no tools.
func NewAgentBase(name string, a modeladapter.Completer, c *chat.Chat, tb *toolbox.ToolBox) AgentBase {
	return AgentBase{
		Name:    name,
		Adapter: a,
		Tools:   tb,
		Chat:    c,
	}
}

// Complete sends the chat and the toolbox's tool descriptors to the adapter
// and appends the reply to the conversation.
func (b *AgentBase) Complete(ctx context.Context) (message.Message, error) {
	var tools []toolbox.Tool
	if b.Tools != nil {
		tools = b.Tools.Tools()
	}

	reply, err := b.Adapter.Complete(ctx, b.Chat, tools)
	if err != nil {
		return message.Message{}, err
	}

	b.Chat.Append(reply)

	return reply, nil
}

// CallTools executes all tool calls in the given message, in order, and
// appends one tool-result message per call so each result echoes its call
// ID. Returns nil if the message contains no tool calls.
func (b *AgentBase) CallTools(ctx context.Context, msg message.Message) []content.ToolResult {
	calls := msg.ToolCalls()
	if len(calls) == 0 {
		return nil
	}

	results := make([]content.ToolResult, 0, len(calls))

	for _, tc := range calls {
		result := b.Tools.Call(ctx, tc)
		results = append(results, result)
		b.Chat.Append(message.New(role.Tool, result))
	}

	return results
}

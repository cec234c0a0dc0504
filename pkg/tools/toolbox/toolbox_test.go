package toolbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deskwise/ticketrouter/pkg/chats/content"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) toolbox.Tool {
	return toolbox.Tool{
		Name:        name,
		Description: "Echoes input",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			return string(input), nil
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	tb := toolbox.New()
	tb.Register(echoTool("echo"))

	tool, ok := tb.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name)

	_, ok = tb.Get("missing")
	assert.False(t, ok)
}

func TestToolsPreservesRegistrationOrder(t *testing.T) {
	tb := toolbox.New()
	tb.Register(echoTool("zeta"), echoTool("alpha"), echoTool("mid"))

	tools := tb.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "zeta", tools[0].Name)
	assert.Equal(t, "alpha", tools[1].Name)
	assert.Equal(t, "mid", tools[2].Name)
}

func TestReRegisterKeepsPosition(t *testing.T) {
	tb := toolbox.New()
	tb.Register(echoTool("a"), echoTool("b"))

	replacement := echoTool("a")
	replacement.Description = "replaced"
	tb.Register(replacement)

	tools := tb.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "a", tools[0].Name)
	assert.Equal(t, "replaced", tools[0].Description)
}

func TestCallSuccess(t *testing.T) {
	tb := toolbox.New()
	tb.Register(echoTool("echo"))

	result := tb.Call(context.Background(), content.ToolCall{
		ID:        "c1",
		Name:      "echo",
		Arguments: `{"msg":"hi"}`,
	})

	assert.Equal(t, "c1", result.ToolCallID)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"msg":"hi"}`, result.Content)
}

func TestCallUnknownTool(t *testing.T) {
	tb := toolbox.New()

	result := tb.Call(context.Background(), content.ToolCall{
		ID:        "c9",
		Name:      "bogus_tool",
		Arguments: "{}",
	})

	assert.Equal(t, "c9", result.ToolCallID)
	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error":"unknown tool: bogus_tool"}`, result.Content)
}

func TestCallHandlerError(t *testing.T) {
	tb := toolbox.New()
	tb.Register(toolbox.Tool{
		Name: "fail",
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			return "", errors.New("boom")
		},
	})

	result := tb.Call(context.Background(), content.ToolCall{ID: "c1", Name: "fail"})

	assert.True(t, result.IsError)
	assert.JSONEq(t, `{"error":"boom"}`, result.Content)
}

package ticket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingCompleter records the system and user text of each completion.
type capturingCompleter struct {
	reply   string
	systems []string
	users   []string
}

func (c *capturingCompleter) Complete(_ context.Context, conv *chat.Chat, _ []toolbox.Tool) (message.Message, error) {
	msgs := conv.Messages()
	c.systems = append(c.systems, msgs[0].TextContent())
	c.users = append(c.users, msgs[1].TextContent())
	return message.NewText(role.Assistant, c.reply), nil
}

func TestNewToolBoxRegistrationOrder(t *testing.T) {
	tb := NewToolBox(&capturingCompleter{})

	var names []string
	for _, tool := range tb.Tools() {
		names = append(names, tool.Name)
	}

	assert.Equal(t, []string{ToolAnalyze, ToolClassify, ToolExtract, ToolRespond}, names)
}

func TestToolSchemasAreValidJSON(t *testing.T) {
	for _, tool := range NewToolBox(&capturingCompleter{}).Tools() {
		var schema map[string]any
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), tool.Name)
		assert.Equal(t, "object", schema["type"], tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
}

func TestAnalyzeToolPassesTicketText(t *testing.T) {
	cc := &capturingCompleter{reply: `  {"intent":"billing"}  `}
	tb := NewToolBox(cc)

	tool, ok := tb.Get(ToolAnalyze)
	require.True(t, ok)

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"ticket_text":"My card was charged twice"}`))

	require.NoError(t, err)
	assert.Equal(t, `{"intent":"billing"}`, out)
	require.Len(t, cc.users, 1)
	assert.Equal(t, "My card was charged twice", cc.users[0])
	assert.Equal(t, analyzeSystemPrompt, cc.systems[0])
}

func TestClassifyToolCombinesTicketAndAnalysis(t *testing.T) {
	cc := &capturingCompleter{reply: `{"department":"Billing"}`}
	tb := NewToolBox(cc)

	tool, _ := tb.Get(ToolClassify)

	_, err := tool.Handler(context.Background(),
		json.RawMessage(`{"ticket_text":"charged twice","analysis":"customer is upset"}`))

	require.NoError(t, err)
	assert.Equal(t, "Ticket:\ncharged twice\n\nAnalysis:\ncustomer is upset", cc.users[0])
	assert.Equal(t, classifySystemPrompt, cc.systems[0])
}

func TestExtractToolUsesOwnPrompt(t *testing.T) {
	cc := &capturingCompleter{reply: `{"order_ids":["A123"]}`}
	tb := NewToolBox(cc)

	tool, _ := tb.Get(ToolExtract)

	_, err := tool.Handler(context.Background(), json.RawMessage(`{"ticket_text":"order A123 missing"}`))

	require.NoError(t, err)
	assert.Equal(t, "order A123 missing", cc.users[0])
	assert.Equal(t, extractSystemPrompt, cc.systems[0])
}

func TestRespondToolCombinesAllInputs(t *testing.T) {
	cc := &capturingCompleter{reply: "Dear customer, ..."}
	tb := NewToolBox(cc)

	tool, _ := tb.Get(ToolRespond)

	_, err := tool.Handler(context.Background(), json.RawMessage(
		`{"ticket_text":"t","analysis":"a","classification":"c","entities":"e"}`))

	require.NoError(t, err)
	assert.Equal(t, "Ticket:\nt\n\nAnalysis:\na\n\nClassification:\nc\n\nEntities:\ne", cc.users[0])
	assert.Equal(t, respondSystemPrompt, cc.systems[0])
}

func TestToolHandlerRejectsMalformedArguments(t *testing.T) {
	tb := NewToolBox(&capturingCompleter{})

	tool, _ := tb.Get(ToolAnalyze)

	_, err := tool.Handler(context.Background(), json.RawMessage(`not json`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), ToolAnalyze)
}

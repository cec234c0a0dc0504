package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/deskwise/ticketrouter/pkg/agents"
	"github.com/deskwise/ticketrouter/pkg/agents/middleware"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agentFunc func(ctx context.Context) (message.Message, error)

func (f agentFunc) Run(ctx context.Context) (message.Message, error) {
	return f(ctx)
}

func TestChainOrder(t *testing.T) {
	var order []string

	tag := func(name string) middleware.Middleware {
		return func(next agents.Agent) agents.Agent {
			return agentFunc(func(ctx context.Context) (message.Message, error) {
				order = append(order, name)
				return next.Run(ctx)
			})
		}
	}

	inner := agentFunc(func(_ context.Context) (message.Message, error) {
		order = append(order, "inner")
		return message.Message{}, nil
	})

	_, err := middleware.Apply(inner, tag("a"), tag("b"), tag("c")).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "inner"}, order)
}

func TestTimeoutCancelsContext(t *testing.T) {
	inner := agentFunc(func(ctx context.Context) (message.Message, error) {
		select {
		case <-ctx.Done():
			return message.Message{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return message.NewText(role.Assistant, "too late"), nil
		}
	})

	_, err := middleware.Timeout(10 * time.Millisecond)(inner).Run(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutPassesThrough(t *testing.T) {
	inner := agentFunc(func(_ context.Context) (message.Message, error) {
		return message.NewText(role.Assistant, "done"), nil
	})

	msg, err := middleware.Timeout(time.Minute)(inner).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "done", msg.TextContent())
}

func TestRecoveryConvertsPanic(t *testing.T) {
	inner := agentFunc(func(_ context.Context) (message.Message, error) {
		panic("nil map write")
	})

	_, err := middleware.Recovery()(inner).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent panicked")
	assert.Contains(t, err.Error(), "nil map write")
}

func TestLoggerRecordsStartAndFinish(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	inner := agentFunc(func(_ context.Context) (message.Message, error) {
		return message.NewText(role.Assistant, "ok"), nil
	})

	msg, err := middleware.Logger(log, "ticket-router")(inner).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", msg.TextContent())

	out := buf.String()
	assert.Contains(t, out, "agent started")
	assert.Contains(t, out, "agent finished")
	assert.Contains(t, out, "agent=ticket-router")
}

func TestLoggerRecordsError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	inner := agentFunc(func(_ context.Context) (message.Message, error) {
		return message.Message{}, context.DeadlineExceeded
	})

	_, err := middleware.Logger(log, "ticket-router")(inner).Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "agent finished with error")
}

// Package middleware provides composable middleware for agents.Agent. Each
// middleware wraps an Agent's Run method, and the wrapped value is itself an
// Agent, so middleware composes via Chain or Apply.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deskwise/ticketrouter/pkg/agents"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
)

// Middleware wraps an Agent, returning a new Agent with added behaviour.
type Middleware func(next agents.Agent) agents.Agent

// Chain composes multiple middleware into one. The first middleware in the
// list is the outermost (runs first).
func Chain(mws ...Middleware) Middleware {
	return func(next agents.Agent) agents.Agent {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Apply wraps an agent with the given middleware. The first middleware in
// the list is the outermost (runs first).
func Apply(agent agents.Agent, mws ...Middleware) agents.Agent {
	return Chain(mws...)(agent)
}

// --- Timeout middleware ---

type timeoutAgent struct {
	next    agents.Agent
	timeout time.Duration
}

func (a *timeoutAgent) Run(ctx context.Context) (message.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return a.next.Run(ctx)
}

// Timeout returns a Middleware that wraps the agent's context with a deadline.
func Timeout(d time.Duration) Middleware {
	return func(next agents.Agent) agents.Agent {
		return &timeoutAgent{next: next, timeout: d}
	}
}

// --- Recovery middleware ---

type recoveryAgent struct {
	next agents.Agent
}

func (a *recoveryAgent) Run(ctx context.Context) (msg message.Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panicked: %v", r)
		}
	}()

	return a.next.Run(ctx)
}

// Recovery returns a Middleware that converts panics into errors.
func Recovery() Middleware {
	return func(next agents.Agent) agents.Agent {
		return &recoveryAgent{next: next}
	}
}

// --- Logger middleware ---

type loggerAgent struct {
	next agents.Agent
	log  *slog.Logger
	name string
}

func (a *loggerAgent) Run(ctx context.Context) (message.Message, error) {
	a.log.InfoContext(ctx, "agent started", "agent", a.name)

	start := time.Now()
	msg, err := a.next.Run(ctx)
	duration := time.Since(start)

	if err != nil {
		a.log.ErrorContext(ctx, "agent finished with error",
			"agent", a.name,
			"duration", duration,
			"error", err,
		)
	} else {
		a.log.InfoContext(ctx, "agent finished",
			"agent", a.name,
			"duration", duration,
		)
	}

	return msg, err
}

// Logger returns a Middleware that logs agent start, duration, and error
// under the given agent name.
func Logger(log *slog.Logger, name string) Middleware {
	return func(next agents.Agent) agents.Agent {
		return &loggerAgent{next: next, log: log, name: name}
	}
}

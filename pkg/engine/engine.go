// Package engine assembles a ticket processor from configuration: it builds
// the provider completers, wires retry behaviour, and exposes aggregate
// token usage.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/modeladapter/usage"
	"github.com/deskwise/ticketrouter/pkg/ticket"
)

// Engine holds a configured ticket processor and the completers behind it.
type Engine struct {
	Processor *ticket.Processor

	driver modeladapter.Completer
	steps  modeladapter.Completer
}

// New builds an Engine from cfg. The driver completer uses the loop's
// sampling settings, the step completer the steps' own; both share one
// provider configuration. log may be nil to disable run logging.
func New(cfg Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := buildCompleter(cfg.Provider, ticket.DriverTemperature, ticket.DriverMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("engine: build driver completer: %w", err)
	}

	steps, err := buildCompleter(cfg.Provider, ticket.StepTemperature, ticket.StepMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("engine: build step completer: %w", err)
	}

	var timeout time.Duration
	if cfg.Agent.Timeout != "" {
		timeout, err = time.ParseDuration(cfg.Agent.Timeout)
		if err != nil {
			return nil, fmt.Errorf("engine: invalid agent timeout %q: %w", cfg.Agent.Timeout, err)
		}
	}

	return &Engine{
		Processor: ticket.NewProcessor(driver, steps, ticket.Options{
			MaxRounds: cfg.Agent.MaxRounds,
			Timeout:   timeout,
			Log:       log,
		}),
		driver: driver,
		steps:  steps,
	}, nil
}

// Usage returns the aggregate token usage across the driver and step
// completers. Completers that do not report usage contribute nothing.
func (e *Engine) Usage() usage.TokenCount {
	var total usage.TokenCount

	for _, c := range []modeladapter.Completer{e.driver, e.steps} {
		if r, ok := c.(modeladapter.UsageReporter); ok {
			t := r.UsageTracker().Total()
			total.InputTokens += t.InputTokens
			total.OutputTokens += t.OutputTokens
		}
	}

	return total
}

// Package ticket implements the customer-support ticket pipeline: four
// remote-backed step tools and the agent loop that lets the model drive them.
package ticket

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/deskwise/ticketrouter/pkg/agents"
	"github.com/deskwise/ticketrouter/pkg/agents/middleware"
	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/chats/role"
	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
)

// KeyFinalSummary is the Results key holding the model's closing summary.
const KeyFinalSummary = "final_summary"

// Sampling settings for the two call shapes: the driver favours literal
// tool-choice output, the steps get a little more room.
const (
	DriverTemperature = 0.2
	DriverMaxTokens   = 1500
	StepTemperature   = 0.3
	StepMaxTokens     = 1024
)

// DefaultMaxRounds caps the number of driver round-trips per ticket.
const DefaultMaxRounds = 10

// Results maps step tool names to their latest raw text output, plus an
// optional KeyFinalSummary entry. A step invoked twice keeps only its last
// result.
type Results map[string]string

// FinalSummary returns the closing summary and whether one was recorded.
func (r Results) FinalSummary() (string, bool) {
	s, ok := r[KeyFinalSummary]
	return s, ok
}

// Options configures a Processor.
type Options struct {
	// MaxRounds caps driver round-trips per ticket. Zero means DefaultMaxRounds.
	MaxRounds int
	// Timeout bounds one whole Process call. Zero means no deadline beyond
	// the caller's context.
	Timeout time.Duration
	// Log, when set, enables start/finish logging around each ticket run.
	Log *slog.Logger
}

// Processor runs support tickets through the agent loop. The driver
// completer receives the conversation plus the step tool descriptors; the
// steps' own completions go through the toolbox handlers. Construct one
// Processor per configuration and reuse it; per-ticket state lives inside
// each Process call.
type Processor struct {
	driver    modeladapter.Completer
	tools     *toolbox.ToolBox
	maxRounds int
	timeout   time.Duration
	log       *slog.Logger
}

// NewProcessor creates a Processor. driver handles the loop's tool-choice
// completions; steps backs the four pipeline tools. A nil steps completer
// reuses driver for both.
func NewProcessor(driver, steps modeladapter.Completer, opts Options) *Processor {
	if steps == nil {
		steps = driver
	}

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &Processor{
		driver:    driver,
		tools:     NewToolBox(steps),
		maxRounds: maxRounds,
		timeout:   opts.Timeout,
		log:       opts.Log,
	}
}

// Tools returns the processor's step tool registry, e.g. for serving the
// steps over MCP.
func (p *Processor) Tools() *toolbox.ToolBox {
	return p.tools
}

// Process runs one ticket through the pipeline and returns the accumulated
// per-step results. The conversation starts with the workflow system prompt
// and the ticket text; each round the model either requests step tools
// (executed in order, results fed back under their call IDs) or answers in
// plain text, which ends the run as the final summary. Hitting the round cap
// is a soft stop: partial results, no summary, nil error. Transport failures
// from the driver abort the ticket.
func (p *Processor) Process(ctx context.Context, ticketText string) (Results, error) {
	conv := chat.New(
		message.NewText(role.System, driverSystemPrompt),
		message.NewText(role.User, "Process this support ticket:\n\n"+ticketText),
	)

	r := &run{
		AgentBase: agents.NewAgentBase("ticket-router", p.driver, conv, p.tools),
		maxRounds: p.maxRounds,
		results:   Results{},
	}

	mws := []middleware.Middleware{middleware.Recovery()}
	if p.log != nil {
		mws = append([]middleware.Middleware{middleware.Logger(p.log, r.Name)}, mws...)
	}
	if p.timeout > 0 {
		mws = append(mws, middleware.Timeout(p.timeout))
	}

	if _, err := middleware.Apply(r, mws...).Run(ctx); err != nil {
		return nil, err
	}

	return r.results, nil
}

// run is one ticket's loop. It implements agents.Agent so the processor's
// middleware stack can wrap it.
type run struct {
	agents.AgentBase
	maxRounds int
	results   Results
}

// Run drives up to maxRounds completion rounds. A reply without tool calls
// is the final summary and ends the run; otherwise every requested call is
// executed in order and recorded last-write-wins under its tool name.
// Exhausting the rounds returns a zero message and no error.
func (r *run) Run(ctx context.Context) (message.Message, error) {
	for i := 0; i < r.maxRounds; i++ {
		reply, err := r.Complete(ctx)
		if err != nil {
			return message.Message{}, err
		}

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			r.results[KeyFinalSummary] = strings.TrimSpace(reply.TextContent())
			return reply, nil
		}

		toolResults := r.CallTools(ctx, reply)
		for j, tc := range calls {
			r.results[tc.Name] = toolResults[j].Content
		}
	}

	return message.Message{}, nil
}

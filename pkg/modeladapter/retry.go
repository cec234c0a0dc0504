package modeladapter

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/deskwise/ticketrouter/pkg/chats/chat"
	"github.com/deskwise/ticketrouter/pkg/chats/message"
	"github.com/deskwise/ticketrouter/pkg/modeladapter/usage"
	"github.com/deskwise/ticketrouter/pkg/tools/toolbox"
)

var _ Completer = (*RetryingCompleter)(nil)

// RetryingCompleter wraps a Completer with bounded retries on rate-limit
// errors. Delays grow exponentially with jitter, and a server-provided
// Retry-After takes precedence over the computed backoff. All other errors
// pass through untouched, so transport and auth failures still abort the
// caller immediately.
type RetryingCompleter struct {
	inner      Completer
	maxRetries int
	baseDelay  time.Duration

	// fallbackTracker is reported when inner lacks a UsageReporter.
	fallbackTracker usage.Tracker

	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
	// randFunc returns a float64 in [0,1) for jitter; defaults to rand.Float64.
	randFunc func() float64
}

// UsageTracker delegates to the inner completer's tracker when it has one,
// so wrapping does not hide token usage.
func (r *RetryingCompleter) UsageTracker() *usage.Tracker {
	if ur, ok := r.inner.(UsageReporter); ok {
		return ur.UsageTracker()
	}
	return &r.fallbackTracker
}

// RetryOpts configures a RetryingCompleter.
type RetryOpts struct {
	MaxRetries int           // Max retries on 429 (default 3).
	BaseDelay  time.Duration // Initial backoff delay (default 1s).
}

// NewRetryingCompleter wraps inner with rate-limit retry behaviour.
func NewRetryingCompleter(inner Completer, opts RetryOpts) *RetryingCompleter {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}

	return &RetryingCompleter{
		inner:      inner,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		sleepFunc:  contextSleep,
		randFunc:   rand.Float64,
	}
}

// SetSleepFunc overrides the sleep function (for testing).
func (r *RetryingCompleter) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	r.sleepFunc = fn
}

// SetRandFunc overrides the jitter source (for testing).
func (r *RetryingCompleter) SetRandFunc(fn func() float64) { r.randFunc = fn }

// Complete calls the inner completer, retrying up to MaxRetries times when it
// returns a *RateLimitError.
func (r *RetryingCompleter) Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		reply, err := r.inner.Complete(ctx, c, tools)
		if err == nil {
			return reply, nil
		}

		var rle *RateLimitError
		if !errors.As(err, &rle) {
			return message.Message{}, err
		}

		lastErr = err
		if attempt == r.maxRetries {
			break
		}

		delay := rle.RetryAfter
		if delay <= 0 {
			backoff := float64(r.baseDelay) * math.Pow(2, float64(attempt))
			delay = time.Duration(backoff * (1 + r.randFunc()*0.5))
		}

		if err := r.sleepFunc(ctx, delay); err != nil {
			return message.Message{}, err
		}
	}

	return message.Message{}, lastErr
}

// contextSleep sleeps for d or until ctx is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

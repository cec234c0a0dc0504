package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/deskwise/ticketrouter/pkg/modeladapter"
	"github.com/deskwise/ticketrouter/pkg/providers/groq"
)

// ProviderFactory creates a Completer from a ProviderConfig with the given
// sampling settings.
type ProviderFactory func(cfg ProviderConfig, temperature float64, maxTokens int) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["groq"] = newGroq
	})
}

// RegisterProvider registers a custom provider factory under the given kind.
// Call it before New to extend the engine with additional providers.
func RegisterProvider(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

func newGroq(cfg ProviderConfig, temperature float64, maxTokens int) (modeladapter.Completer, error) {
	a := groq.New(cfg.APIKey, nil)
	if cfg.BaseURL != "" {
		a.BaseURL = cfg.BaseURL
	}
	a.Name = cfg.Model
	a.Temperature = temperature
	a.MaxTokens = maxTokens

	return a, nil
}

// buildCompleter creates a Completer for the configured kind, wrapping it
// with rate-limit retries when configured.
func buildCompleter(cfg ProviderConfig, temperature float64, maxTokens int) (modeladapter.Completer, error) {
	factory, ok := getFactory(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown provider kind %q", cfg.Kind)
	}

	c, err := factory(cfg, temperature, maxTokens)
	if err != nil {
		return nil, err
	}

	if cfg.Retry.Enabled() {
		var baseDelay time.Duration
		if cfg.Retry.BaseDelay != "" {
			baseDelay, err = time.ParseDuration(cfg.Retry.BaseDelay)
			if err != nil {
				return nil, fmt.Errorf("engine: invalid retry base_delay %q: %w", cfg.Retry.BaseDelay, err)
			}
		}

		c = modeladapter.NewRetryingCompleter(c, modeladapter.RetryOpts{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  baseDelay,
		})
	}

	return c, nil
}

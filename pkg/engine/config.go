package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for assembling a ticket processor.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Agent    AgentConfig    `yaml:"agent"`
}

// ProviderConfig describes the LLM provider backing both the driver and the
// step completions.
type ProviderConfig struct {
	Kind    string      `yaml:"kind"`     // Provider kind (e.g. "groq").
	BaseURL string      `yaml:"base_url"` // Optional override; any OpenAI-compatible endpoint.
	APIKey  string      `yaml:"api_key"`  //nolint:gosec // configuration field, not a hardcoded secret
	Model   string      `yaml:"model"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig controls rate-limit retry behaviour. A zero value disables the
// retry wrapper entirely; rate limits then abort the ticket like any other
// transport failure.
type RetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"` // Duration string, e.g. "1s", "500ms".
}

// Enabled reports whether any retry setting is present.
func (r RetryConfig) Enabled() bool {
	return r.MaxRetries > 0 || r.BaseDelay != ""
}

// AgentConfig holds agent loop settings.
type AgentConfig struct {
	MaxRounds int    `yaml:"max_rounds"` // Driver round cap (0 = default 10).
	Timeout   string `yaml:"timeout"`    // Per-ticket deadline as a duration string (empty = none).
}

// LoadConfig reads a YAML file and returns a Config. Environment variables
// referenced as ${VAR} or $VAR in the YAML are expanded before parsing, so
// API keys can live in the environment (e.g. loaded from a .env file) rather
// than in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Provider.Kind == "" {
		return fmt.Errorf("engine: config: provider kind is required")
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("engine: config: provider model is required")
	}

	if c.Provider.Retry.BaseDelay != "" {
		if _, err := time.ParseDuration(c.Provider.Retry.BaseDelay); err != nil {
			return fmt.Errorf("engine: config: invalid retry base_delay %q: %w", c.Provider.Retry.BaseDelay, err)
		}
	}

	if c.Agent.MaxRounds < 0 {
		return fmt.Errorf("engine: config: agent max_rounds must not be negative")
	}
	if c.Agent.Timeout != "" {
		if _, err := time.ParseDuration(c.Agent.Timeout); err != nil {
			return fmt.Errorf("engine: config: invalid agent timeout %q: %w", c.Agent.Timeout, err)
		}
	}

	return nil
}

package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "grok", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Grok       GrokConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// MaxTokens caps each chat reply. Default: 1000.
	MaxTokens int

	// Temperature for chat replies. Default: 0.7.
	Temperature float64

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// GrokConfig holds xAI Grok configuration.
type GrokConfig struct {
	APIKey  string
	Model   string // Default: "grok-3-latest"
	BaseURL string // Default: "https://api.x.ai/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// ConfigError reports a missing or invalid setting.
type ConfigError struct {
	Provider string
	Var      string // environment variable that must be set, if any
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Var != "" {
		return fmt.Sprintf("%s is required for the %s provider", e.Var, e.Provider)
	}
	return fmt.Sprintf("llm config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "grok",
		Grok: GrokConfig{
			Model: "grok-3-latest",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("CBT_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	setFromEnv(&cfg.Grok.APIKey, "CBT_GROK_API_KEY")
	setFromEnv(&cfg.Grok.Model, "CBT_GROK_MODEL")
	setFromEnv(&cfg.Grok.BaseURL, "CBT_GROK_BASE_URL")

	setFromEnv(&cfg.Anthropic.APIKey, "CBT_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "CBT_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "CBT_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "CBT_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "CBT_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "CBT_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "CBT_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "CBT_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "CBT_OPENROUTER_MODEL")

	return cfg
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// DiscoverConfig checks standard API key env vars in priority order
// (xAI → Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for
// the first provider whose key is found. Returns (Config{}, false) if none
// found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("XAI_API_KEY"); k != "" {
		cfg.Provider = "grok"
		cfg.Grok.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
// Failures are *ConfigError.
func (c Config) Validate() error {
	missing := func(v string) error {
		return &ConfigError{Provider: c.Provider, Var: v}
	}

	switch c.Provider {
	case "grok":
		if c.Grok.APIKey == "" {
			return missing("CBT_GROK_API_KEY")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("CBT_ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("CBT_OPENAI_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("CBT_GEMINI_API_KEY")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("CBT_OPENROUTER_API_KEY")
		}
	case "mock":
		// No API key needed.
	default:
		return &ConfigError{
			Provider: c.Provider,
			Err:      fmt.Errorf("unknown LLM provider: %q", c.Provider),
		}
	}
	return nil
}

package llm

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"
)

// Config holds all LLM provider configuration. Field tags match the keys
// of the "llm" section of the application config file.
type Config struct {
	// Provider selects the backend: "gemini", "openai", "anthropic",
	// "openrouter" or "mock".
	Provider string `mapstructure:"provider"`

	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration `mapstructure:"timeout"`

	// RequestsPerMinute caps outgoing calls client-side. Zero disables the
	// limiter.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config targeting Gemini Flash.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:           60 * time.Second,
		RequestsPerMinute: 10,
	}
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Default API hosts, used when no base URL overrides them.
const (
	geminiHost     = "generativelanguage.googleapis.com"
	openAIHost     = "api.openai.com"
	anthropicHost  = "api.anthropic.com"
	openRouterHost = "openrouter.ai"
)

// Endpoint returns the host:port the selected provider sends requests
// to, derived from its base URL when one is configured. It is empty for
// the mock provider and unknown providers.
func (c Config) Endpoint() string {
	switch c.Provider {
	case "gemini":
		return net.JoinHostPort(geminiHost, "443")
	case "openai":
		return endpointOf(c.OpenAI.BaseURL, openAIHost)
	case "anthropic":
		return endpointOf(c.Anthropic.BaseURL, anthropicHost)
	case "openrouter":
		return endpointOf(c.OpenRouter.BaseURL, openRouterHost)
	}
	return ""
}

func endpointOf(baseURL, defaultHost string) string {
	u, err := url.Parse(baseURL)
	if baseURL == "" || err != nil || u.Hostname() == "" {
		return net.JoinHostPort(defaultHost, "443")
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

// Discover fills in credentials from the vendors' standard environment
// variables, probed in priority order Gemini, OpenAI, Anthropic,
// OpenRouter. The first key found selects the provider. It reports false
// when no key was found.
func (c Config) Discover(getenv func(string) string) (Config, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if k := getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = "gemini"
		c.Gemini.APIKey = k
		return c, true
	}
	if k := getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = "openai"
		c.OpenAI.APIKey = k
		return c, true
	}
	if k := getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider = "anthropic"
		c.Anthropic.APIKey = k
		return c, true
	}
	if k := getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider = "openrouter"
		c.OpenRouter.APIKey = k
		return c, true
	}
	return c, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter":
		if !c.HasKey() {
			return fmt.Errorf("NEXTHIRE_LLM_%s_API_KEY is required for the %s provider", envName(c.Provider), c.Provider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return nil
}

func envName(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI"
	case "anthropic":
		return "ANTHROPIC"
	case "openrouter":
		return "OPENROUTER"
	default:
		return "GEMINI"
	}
}

package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → rate limit → logging → vendor SDK.
// eventRepo and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg, eventRepo, logger), nil
}

// Wrap applies the standard decorator chain to base using the retry,
// rate limit and timeout settings of cfg.
func Wrap(base Provider, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) Provider {
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	limited := WithRateLimit(logged, cfg.RequestsPerMinute)
	return WithTimeout(WithRetry(limited, cfg.Retry), cfg.Timeout)
}

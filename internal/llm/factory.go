package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/quantsim/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with logging.
// The configuration is validated first so that a missing key surfaces as
// *ErrMissingAPIKey without constructing any client.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
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

	// One remote attempt per call; failures go straight back to the caller.
	return WithLogging(base, logger, eventRepo), nil
}

// NewProviderFromEnv builds a provider from the current environment.
func NewProviderFromEnv(ctx context.Context, logger *slog.Logger, eventRepo store.EventRepo) (Provider, error) {
	return NewProvider(ctx, ConfigFromEnv(), logger, eventRepo)
}

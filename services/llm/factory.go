package llm

import (
	"fmt"

	"interviewcoach/config"
	"interviewcoach/services/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Factory builds one decorated model per stage. All stages share the
// provider's rate limiter.
type Factory struct {
	cfg     config.LLMConfig
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewFactory(cfg config.LLMConfig, m *metrics.Metrics, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:     cfg,
		limiter: NewLimiter(cfg.RequestsPerMinute, cfg.Burst),
		metrics: m,
		logger:  logger,
	}
}

func (f *Factory) ForStage(stage string, tier Tier) (Model, error) {
	base, err := NewModel(f.cfg, tier)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Configured stage model",
		zap.String("stage", stage),
		zap.String("tier", string(tier)),
		zap.String("model", base.Name()))

	return NewObservedModel(NewRateLimitedModel(base, f.limiter), stage, f.cfg.Timeout, f.metrics, f.logger), nil
}

// NewModel picks the provider and the model for the tier. The choice is
// fixed for the lifetime of the returned model.
func NewModel(cfg config.LLMConfig, tier Tier) (Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %s", cfg.Provider)
		}
		return langchainModel(cfg.Provider, pickModel(tier, cfg.OpenAIModel, cfg.OpenAICheapModel), cfg.OpenAIAPIKey, "")

	case config.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for provider %s", cfg.Provider)
		}
		return langchainModel(cfg.Provider, pickModel(tier, cfg.OpenRouterModel, cfg.OpenRouterCheapModel), cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL)

	case config.ProviderMistral:
		if cfg.MistralAPIKey == "" {
			return nil, fmt.Errorf("MISTRAL_API_KEY is required for provider %s", cfg.Provider)
		}
		return langchainModel(cfg.Provider, pickModel(tier, cfg.MistralModel, cfg.MistralCheapModel), cfg.MistralAPIKey, cfg.MistralBaseURL)

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for provider %s", cfg.Provider)
		}
		return NewAnthropicModel(cfg.AnthropicAPIKey, pickModel(tier, cfg.AnthropicModel, cfg.AnthropicCheapModel)), nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func langchainModel(provider, model, apiKey, baseURL string) (Model, error) {
	m, err := NewLangchainModel(provider, model, apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func pickModel(tier Tier, standard, cheap string) string {
	if tier == TierCheap && cheap != "" {
		return cheap
	}
	return standard
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainModel serves OpenAI and every OpenAI-compatible endpoint
// (OpenRouter, Mistral) through langchaingo.
type LangchainModel struct {
	provider string
	model    string
	llm      llms.Model
}

func NewLangchainModel(provider, model, apiKey, baseURL string) (*LangchainModel, error) {
	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
	}

	return newLangchainModel(provider, model, client), nil
}

func newLangchainModel(provider, model string, client llms.Model) *LangchainModel {
	return &LangchainModel{provider: provider, model: model, llm: client}
}

func (m *LangchainModel) Name() string {
	return m.provider + "/" + m.model
}

func (m *LangchainModel) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", &ProviderError{Provider: m.provider, Model: m.model, Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", &ProviderError{Provider: m.provider, Model: m.model, Err: ErrEmptyResponse}
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
)

// Tier selects between the full model and the cheaper one used for hidden
// analysis stages.
type Tier string

const (
	TierStandard Tier = "standard"
	TierCheap    Tier = "cheap"
)

type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Model is the single capability every stage agent depends on.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

var ErrEmptyResponse = errors.New("empty response from model")

type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

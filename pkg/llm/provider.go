// Package llm abstracts the language model APIs used by the recovery
// policy. Only single-turn text completion is exposed; tool-calling
// and streaming stay with the providers' own SDKs.
package llm

import (
	"context"
	"fmt"
)

// Request holds the parameters for one completion call.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response is the text returned by a provider.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// Provider is an LLM API adapter.
type Provider interface {
	// Complete makes a completion call.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name.
	Name() string
}

// NewProvider creates a provider by name.
func NewProvider(name, apiKey string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

package recovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/harun/kestrel/pkg/llm"
	"github.com/harun/kestrel/pkg/planner"
)

const decisionSystemPrompt = `You decide how an agent should recover from a failed plan step.
Reply with a single JSON object:
{"action": "retry" | "alternative" | "skip" | "abort", "details": {...}}
details carries "params" for retry, "tool" and "parameters" for alternative, and "reason" for skip or abort.`

// LLMPolicy asks a language model how to handle a failed step and
// parses its reply into a recovery outcome.
type LLMPolicy struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
}

// LLMOption configures an LLMPolicy.
type LLMOption func(*LLMPolicy)

// WithModel overrides the model used for decisions.
func WithModel(model string) LLMOption {
	return func(p *LLMPolicy) {
		p.model = model
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) LLMOption {
	return func(p *LLMPolicy) {
		p.temperature = t
	}
}

// WithMaxTokens overrides the reply token budget.
func WithMaxTokens(n int) LLMOption {
	return func(p *LLMPolicy) {
		p.maxTokens = n
	}
}

// NewLLMPolicy creates a policy backed by provider.
func NewLLMPolicy(provider llm.Provider, opts ...LLMOption) *LLMPolicy {
	p := &LLMPolicy{
		provider:  provider,
		model:     "claude-sonnet-4-5",
		maxTokens: 1024,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decide queries the model and parses its reply. A parse failure
// yields Unresolved plus a ParseError, which the executor records as
// a failed recovery attempt.
func (p *LLMPolicy) Decide(ctx context.Context, step planner.Step, stepErr error) (planner.Outcome, error) {
	prompt, err := buildDecisionPrompt(step, stepErr)
	if err != nil {
		return planner.Unresolved, err
	}

	response, err := p.provider.Complete(ctx, llm.Request{
		Model:       p.model,
		System:      decisionSystemPrompt,
		Prompt:      prompt,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return planner.Unresolved, fmt.Errorf("recovery decision call failed: %w", err)
	}

	outcome, err := ParseOutcome(response.Content)
	if err != nil {
		log.Warn().Str("step", step.ID).Err(err).Msg("Recovery reply unparseable")
		return planner.Unresolved, err
	}

	log.Debug().Str("step", step.ID).Str("action", string(outcome.Action)).
		Str("provider", p.provider.Name()).Msg("Recovery decision parsed")
	return outcome, nil
}

func buildDecisionPrompt(step planner.Step, stepErr error) (string, error) {
	stepJSON, err := json.MarshalIndent(step, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode step: %w", err)
	}

	prompt := fmt.Sprintf("Step:\n%s\n\nError: %s\n", stepJSON, stepErr)
	if step.ErrorHandling != "" {
		prompt += fmt.Sprintf("\nPlanner hint: %s\n", step.ErrorHandling)
	}
	return prompt, nil
}

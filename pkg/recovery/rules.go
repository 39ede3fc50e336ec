package recovery

import (
	"context"

	"github.com/harun/kestrel/pkg/planner"
)

// RulePolicy is a deterministic RecoveryPolicy keyed by tool name.
// Steps whose tool has no rule get the default outcome.
type RulePolicy struct {
	rules       map[string]planner.Outcome
	defaultRule planner.Outcome
}

// NewRulePolicy creates a policy with no rules and an Unresolved
// default.
func NewRulePolicy() *RulePolicy {
	return &RulePolicy{
		rules:       make(map[string]planner.Outcome),
		defaultRule: planner.Unresolved,
	}
}

// Rule sets the outcome for failures of steps using tool.
func (p *RulePolicy) Rule(tool string, outcome planner.Outcome) *RulePolicy {
	p.rules[tool] = outcome
	return p
}

// Default sets the outcome for tools without an explicit rule.
func (p *RulePolicy) Default(outcome planner.Outcome) *RulePolicy {
	p.defaultRule = outcome
	return p
}

// Decide returns the configured outcome for the step's tool.
func (p *RulePolicy) Decide(_ context.Context, step planner.Step, _ error) (planner.Outcome, error) {
	if outcome, ok := p.rules[step.Tool]; ok {
		return outcome, nil
	}
	return p.defaultRule, nil
}

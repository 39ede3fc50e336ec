package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// Plan is an ordered sequence of tool invocations. It is immutable
// input to one execution.
type Plan struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// Step is a single tool invocation within a plan.
type Step struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description,omitempty"`
	Tool        string                 `json:"tool"`
	Parameters  map[string]interface{} `json:"parameters"`

	// Optional controls whether an unrecovered failure aborts the
	// plan. Optional steps fail without halting later steps.
	Optional bool `json:"optional,omitempty"`

	// ErrorHandling is a free-text recovery hint passed to the
	// RecoveryPolicy. When empty, no recovery is attempted.
	ErrorHandling string `json:"error_handling,omitempty"`
}

// StepResult records one dispatch attempt. Recovery attempts appear
// as additional results under the "<id>_retry" / "<id>_alt" ids.
type StepResult struct {
	StepID    string          `json:"step_id"`
	Tool      string          `json:"tool"`
	Success   bool            `json:"success"`
	Result    interface{}     `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Recovery  *RecoveryRecord `json:"error_handling,omitempty"`
}

// RecoveryRecord marks how a step's failure was handled.
type RecoveryRecord struct {
	Skipped bool   `json:"skipped,omitempty"`
	Aborted bool   `json:"aborted,omitempty"`
	Reason  string `json:"reason,omitempty"`

	// Failed is set when the policy's output could not be parsed into
	// a recovery outcome and the step fell through to the no-recovery
	// path.
	Failed bool `json:"failed,omitempty"`
}

// ExecutionError is one entry of ExecutionResult.Errors.
type ExecutionError struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ExecutionResult is the outcome of one plan execution.
type ExecutionResult struct {
	PlanID    string           `json:"plan_id"`
	Steps     []StepResult     `json:"steps"`
	Success   bool             `json:"success"`
	Errors    []ExecutionError `json:"errors"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
}

// ParsePlan decodes a JSON plan document. Beyond well-formedness only
// the presence of steps is checked; step contents are validated at
// dispatch.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}
	return &plan, nil
}

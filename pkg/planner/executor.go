package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/harun/kestrel/pkg/toolregistry"
)

const (
	defaultHistoryCapacity = 100
	defaultHistoryLimit    = 10
)

// PlanObserver receives plan execution outcomes for export to an
// external observability pipeline.
type PlanObserver interface {
	ObservePlanExecution(duration time.Duration, success bool)
}

// Executor runs plans against an injected tool registry. Steps run
// strictly in list order; later steps never begin before earlier ones
// complete, so they can rely on side effects of earlier steps.
type Executor struct {
	registry *toolregistry.Registry
	policy   RecoveryPolicy
	observer PlanObserver

	mu      sync.Mutex
	history *historyRing
}

// Option configures an Executor.
type Option func(*Executor)

// WithRecoveryPolicy sets the policy consulted when a step that
// carries an error_handling hint fails.
func WithRecoveryPolicy(policy RecoveryPolicy) Option {
	return func(e *Executor) {
		e.policy = policy
	}
}

// WithHistoryCapacity overrides the bounded history size (default 100).
func WithHistoryCapacity(capacity int) Option {
	return func(e *Executor) {
		e.history = newHistoryRing(capacity)
	}
}

// WithPlanObserver attaches a plan execution observer.
func WithPlanObserver(obs PlanObserver) Option {
	return func(e *Executor) {
		e.observer = obs
	}
}

// NewExecutor creates an executor bound to registry.
func NewExecutor(registry *toolregistry.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		history:  newHistoryRing(defaultHistoryCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	log.Debug().Bool("recovery", e.policy != nil).Msg("Plan executor initialized")
	return e
}

// Execute runs every step of plan in order and returns a structured
// result. It never returns an error: step failures are recorded in
// the result, and a bug inside the executor itself surfaces as a
// synthetic "overall_execution" error entry.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (result *ExecutionResult) {
	planID := plan.ID
	if planID == "" {
		planID = gonanoid.Must()
	}

	result = &ExecutionResult{
		PlanID:    planID,
		Success:   true,
		Steps:     []StepResult{},
		Errors:    []ExecutionError{},
		StartTime: time.Now(),
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.Errors = append(result.Errors, ExecutionError{
				Step:    "overall_execution",
				Message: fmt.Sprintf("%v", rec),
			})
			log.Error().Str("plan", planID).Interface("panic", rec).
				Msg("Plan execution aborted by internal error")
		}

		result.EndTime = time.Now()
		e.mu.Lock()
		e.history.push(result)
		e.mu.Unlock()

		if e.observer != nil {
			e.observer.ObservePlanExecution(result.EndTime.Sub(result.StartTime), result.Success)
		}

		log.Info().Str("plan", planID).Bool("success", result.Success).
			Int("steps", len(result.Steps)).Msg("Plan execution finished")
	}()

	log.Info().Str("plan", planID).Int("steps", len(plan.Steps)).
		Msg("Executing plan")

	for _, step := range plan.Steps {
		if halt := e.runStep(ctx, step, result); halt {
			break
		}
	}
	return result
}

// runStep dispatches one step, applying recovery on failure. It
// reports whether the plan must halt.
func (e *Executor) runStep(ctx context.Context, step Step, result *ExecutionResult) bool {
	sr := e.dispatch(ctx, step.ID, step.Tool, step.Parameters)
	if sr.Success {
		result.Steps = append(result.Steps, sr)
		return false
	}

	failure := sr.Error
	appended := false
	abort := false

	if step.ErrorHandling != "" && e.policy != nil {
		outcome, decideErr := e.policy.Decide(ctx, step, errors.New(sr.Error))
		if decideErr != nil || !isActionable(outcome.Action) {
			sr.Recovery = &RecoveryRecord{Failed: true}
			log.Warn().Str("step", step.ID).AnErr("decide_error", decideErr).
				Msg("Recovery policy produced no usable outcome")
		} else {
			log.Info().Str("step", step.ID).Str("action", string(outcome.Action)).
				Msg("Applying recovery outcome")

			switch outcome.Action {
			case ActionRetry:
				// One generated retry per step; no further automatic
				// recovery on the retry attempt.
				result.Steps = append(result.Steps, sr)
				retry := e.dispatch(ctx, step.ID+"_retry", step.Tool,
					mergeParams(step.Parameters, outcome.Params))
				result.Steps = append(result.Steps, retry)
				if retry.Success {
					return false
				}
				failure = retry.Error
				appended = true

			case ActionAlternative:
				result.Steps = append(result.Steps, sr)
				alt := e.dispatch(ctx, step.ID+"_alt", outcome.Tool, outcome.Params)
				result.Steps = append(result.Steps, alt)
				if alt.Success {
					return false
				}
				failure = alt.Error
				appended = true

			case ActionSkip:
				sr.Recovery = &RecoveryRecord{Skipped: true, Reason: outcome.Reason}
				result.Steps = append(result.Steps, sr)
				return false

			case ActionAbort:
				sr.Recovery = &RecoveryRecord{Aborted: true, Reason: outcome.Reason}
				abort = true
			}
		}
	}

	if !appended {
		result.Steps = append(result.Steps, sr)
	}

	// Optional steps fail without halting the plan; an explicit Abort
	// outcome overrides optionality.
	if step.Optional && !abort {
		return false
	}

	result.Success = false
	result.Errors = append(result.Errors, ExecutionError{
		Step:    step.ID,
		Message: fmt.Sprintf("Critical step failed: %s", failure),
	})
	return true
}

// dispatch invokes one tool attempt through the registry. The
// registry lookup is guarded by HasTool first so an unknown tool
// yields a clean step-level message.
func (e *Executor) dispatch(ctx context.Context, attemptID, tool string, params map[string]interface{}) StepResult {
	sr := StepResult{
		StepID:    attemptID,
		Tool:      tool,
		StartTime: time.Now(),
	}

	if !e.registry.HasTool(tool) {
		sr.EndTime = time.Now()
		sr.Error = fmt.Sprintf("tool not found: %s", tool)
		log.Error().Str("step", attemptID).Str("tool", tool).Msg("Step references unknown tool")
		return sr
	}

	value, err := e.registry.Execute(ctx, tool, params)
	sr.EndTime = time.Now()
	if err != nil {
		sr.Error = err.Error()
		return sr
	}

	sr.Success = true
	sr.Result = value
	return sr
}

func isActionable(action Action) bool {
	switch action {
	case ActionRetry, ActionAlternative, ActionSkip, ActionAbort:
		return true
	default:
		return false
	}
}

// mergeParams overlays override onto base without mutating either.
func mergeParams(base, override map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// History returns the most recent results, newest first. A limit of
// zero or less returns up to 10 entries.
func (e *Executor) History(limit int) []*ExecutionResult {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.list(limit)
}

// Status reports executor readiness and bookkeeping sizes.
type Status struct {
	Initialized bool `json:"initialized"`
	HistorySize int  `json:"history_size"`
	ToolCount   int  `json:"tool_count"`
}

// Status returns the executor's current status.
func (e *Executor) Status() Status {
	e.mu.Lock()
	size := e.history.len()
	e.mu.Unlock()

	return Status{
		Initialized: e.registry != nil,
		HistorySize: size,
		ToolCount:   len(e.registry.RegisteredTools()),
	}
}

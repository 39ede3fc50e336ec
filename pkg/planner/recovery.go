package planner

import "context"

// Action identifies a recovery decision for a failed step.
type Action string

const (
	ActionRetry       Action = "retry"
	ActionAlternative Action = "alternative"
	ActionSkip        Action = "skip"
	ActionAbort       Action = "abort"

	// ActionUnresolved means the policy could not produce a decision;
	// the executor falls through to the no-recovery path.
	ActionUnresolved Action = "unresolved"
)

// Outcome is a recovery decision. The Action discriminates which
// fields are meaningful: Params for retry, Tool and Params for
// alternative, Reason for skip and abort.
type Outcome struct {
	Action Action                 `json:"action"`
	Tool   string                 `json:"tool,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// Unresolved is the outcome used when a policy cannot decide.
var Unresolved = Outcome{Action: ActionUnresolved}

// RecoveryPolicy decides how to handle a failed step. The reference
// implementation in pkg/recovery queries a language model; tests and
// offline deployments substitute deterministic policies.
type RecoveryPolicy interface {
	Decide(ctx context.Context, step Step, stepErr error) (Outcome, error)
}

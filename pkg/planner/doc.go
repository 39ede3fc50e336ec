// Package planner executes ordered multi-step plans against a tool
// registry.
//
// Plans are produced externally (typically by a language model) and
// consumed as-is: the executor dispatches each step through the
// registry strictly in list order, consults a pluggable RecoveryPolicy
// when a step fails, and aggregates a structured ExecutionResult plus
// a bounded history of recent executions. Execute never returns an
// error to its caller; every failure mode is reported inside the
// result.
package planner

// Package recovery provides RecoveryPolicy implementations for the
// plan executor: a language-model-backed policy that asks a model how
// to handle a failed step and parses its reply into a decision, and a
// deterministic rule-based policy for tests and offline deployments.
package recovery

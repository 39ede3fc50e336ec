package toolregistry

import "fmt"

// ToolNotFoundError is returned when a tool name is not registered.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Tool)
}

// ValidationError is returned when parameters do not satisfy the
// registered schema. The tool handler is never invoked.
type ValidationError struct {
	Tool    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ToolExecutionError wraps an error returned (or a panic raised) by a
// tool handler.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// InvalidToolInSequenceError is returned when a composed tool
// references a name that is not registered at call time.
type InvalidToolInSequenceError struct {
	Composed string
	Tool     string
}

func (e *InvalidToolInSequenceError) Error() string {
	return fmt.Sprintf("invalid tool in sequence %s: %s", e.Composed, e.Tool)
}

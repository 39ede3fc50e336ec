package toolregistry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Handler is the function signature for tool execution. It receives a
// single parameters object and returns a result or an error.
type Handler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Tool is a registered, independently invokable operation.
type Tool struct {
	Name    string
	Handler Handler
	Schema  *Schema
}

// Observer receives execution outcomes for export to an external
// observability pipeline. Implementations must be safe for concurrent
// use.
type Observer interface {
	ObserveToolExecution(tool string, duration time.Duration, success bool)
}

// Registry holds named tool implementations and dispatches calls to
// them. It is created once per process and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]*Tool
	metrics  map[string]*toolMetrics
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver attaches an execution observer, typically the
// Prometheus exporter in internal/metrics.
func WithObserver(obs Observer) Option {
	return func(r *Registry) {
		r.observer = obs
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		tools:   make(map[string]*Tool),
		metrics: make(map[string]*toolMetrics),
	}
	for _, opt := range opts {
		opt(r)
	}
	log.Debug().Msg("Tool registry initialized")
	return r
}

// Register adds a tool under name. Re-registering an existing name
// overwrites the prior implementation; the tool's metrics entry is
// preserved. Registration fails only if the handler is nil or the
// schema does not compile.
func (r *Registry) Register(name string, handler Handler, schema *Schema) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %s: handler cannot be nil", name)
	}
	if schema != nil {
		if err := schema.compile(); err != nil {
			return fmt.Errorf("tool %s: %w", name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		log.Warn().Str("tool", name).Msg("Tool already registered, overwriting")
	}
	r.tools[name] = &Tool{Name: name, Handler: handler, Schema: schema}
	if _, ok := r.metrics[name]; !ok {
		r.metrics[name] = &toolMetrics{}
	}

	log.Info().Str("tool", name).Bool("schema", schema != nil).Msg("Tool registered")
	return nil
}

// Unregister removes a tool. Its metrics entry is kept so usage
// history survives re-registration.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tools, name)
	log.Info().Str("tool", name).Msg("Tool unregistered")
}

// HasTool reports whether name is registered.
func (r *Registry) HasTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]
	return ok
}

// RegisteredTools returns the sorted names of all registered tools.
func (r *Registry) RegisteredTools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolSchema returns the schema registered for name, or nil if the
// tool is unknown or has no schema.
func (r *Registry) ToolSchema(name string) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tool, ok := r.tools[name]; ok {
		return tool.Schema
	}
	return nil
}

// Execute validates params against the tool's schema and invokes its
// handler, measuring wall-clock duration and updating per-tool
// metrics.
//
// It returns ToolNotFoundError for an unregistered name,
// ValidationError when params violate the schema (the handler is
// never invoked), and ToolExecutionError wrapping any error the
// handler itself returns.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	tool := r.tools[name]
	r.mu.RUnlock()

	if tool == nil {
		log.Error().Str("tool", name).Msg("Tool not found")
		return nil, &ToolNotFoundError{Tool: name}
	}

	if tool.Schema != nil {
		if err := tool.Schema.validate(name, params); err != nil {
			log.Error().Str("tool", name).Err(err).Msg("Parameter validation failed")
			return nil, err
		}
	}

	log.Debug().Str("tool", name).Msg("Executing tool")

	start := time.Now()
	result, err := r.invoke(ctx, tool, params)
	duration := time.Since(start)

	if r.observer != nil {
		r.observer.ObserveToolExecution(name, duration, err == nil)
	}

	if err != nil {
		execErr := &ToolExecutionError{Tool: name, Err: err}
		r.recordFailure(name, duration, execErr)
		log.Error().Str("tool", name).Dur("duration", duration).Err(err).
			Msg("Tool execution failed")
		return nil, execErr
	}

	r.recordSuccess(name, duration)
	log.Debug().Str("tool", name).Dur("duration", duration).
		Msg("Tool execution completed")
	return result, nil
}

// invoke runs the handler, converting a panic into an error so a
// misbehaving tool cannot take down the owning plan.
func (r *Registry) invoke(ctx context.Context, tool *Tool, params map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool panicked: %v", rec)
		}
	}()
	return tool.Handler(ctx, params)
}

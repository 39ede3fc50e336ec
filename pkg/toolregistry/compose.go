package toolregistry

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// SequenceStep is one stage of a composed tool. Exactly one of Map or
// MapFunc may be set; with neither, the composed tool's input
// parameters are passed through unchanged.
type SequenceStep struct {
	// Tool names the registered tool this stage dispatches to.
	Tool string

	// Map statically builds the stage's parameters. Each target key's
	// source is "params.<key>" (read from the composed tool's input),
	// "result" (the entire prior result), or "result.<key>" (a field
	// of the prior result).
	Map map[string]string

	// MapFunc builds the stage's parameters from the composed tool's
	// input and the prior stage's result. Takes precedence over Map.
	MapFunc func(params map[string]interface{}, prior interface{}) map[string]interface{}

	// ResultTransform post-processes the stage's result before it
	// becomes the prior result for the next stage.
	ResultTransform func(result interface{}) interface{}
}

// Compose registers a new tool that runs steps strictly in order
// against this registry, threading each stage's result forward. The
// final stage's result is the composed tool's result.
//
// Step tools are resolved at call time: invoking the composed tool
// fails with InvalidToolInSequenceError if any stage references an
// unregistered name.
func (r *Registry) Compose(name string, steps []SequenceStep, schema *Schema) error {
	handler := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		for _, step := range steps {
			if !r.HasTool(step.Tool) {
				return nil, &InvalidToolInSequenceError{Composed: name, Tool: step.Tool}
			}
		}

		var prior interface{}
		for i, step := range steps {
			stepParams := resolveStepParams(name, step, params, prior)

			result, err := r.Execute(ctx, step.Tool, stepParams)
			if err != nil {
				return nil, err
			}
			if step.ResultTransform != nil {
				result = step.ResultTransform(result)
			}
			prior = result

			log.Debug().Str("composed", name).Str("tool", step.Tool).
				Int("stage", i).Msg("Composed stage completed")
		}
		return prior, nil
	}

	if err := r.Register(name, handler, schema); err != nil {
		return err
	}
	log.Info().Str("tool", name).Int("steps", len(steps)).Msg("Composed tool registered")
	return nil
}

func resolveStepParams(composed string, step SequenceStep, params map[string]interface{}, prior interface{}) map[string]interface{} {
	if step.MapFunc != nil {
		return step.MapFunc(params, prior)
	}
	if step.Map == nil {
		return params
	}

	resolved := make(map[string]interface{}, len(step.Map))
	for target, source := range step.Map {
		value, ok := resolveSource(source, params, prior)
		if !ok {
			// Unknown source paths resolve to nil rather than failing;
			// plans produced by a model frequently over-specify mappings.
			log.Warn().Str("composed", composed).Str("tool", step.Tool).
				Str("source", source).Msg("Unresolved parameter mapping")
		}
		resolved[target] = value
	}
	return resolved
}

func resolveSource(source string, params map[string]interface{}, prior interface{}) (interface{}, bool) {
	switch {
	case source == "result":
		return prior, true
	case strings.HasPrefix(source, "result."):
		key := strings.TrimPrefix(source, "result.")
		if m, ok := prior.(map[string]interface{}); ok {
			value, ok := m[key]
			return value, ok
		}
		return nil, false
	case strings.HasPrefix(source, "params."):
		key := strings.TrimPrefix(source, "params.")
		value, ok := params[key]
		return value, ok
	default:
		return nil, false
	}
}

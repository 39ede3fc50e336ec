package toolregistry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	return params["message"], nil
}

func TestRegistry_Register(t *testing.T) {
	r := New()

	err := r.Register("echo", echoHandler, nil)
	assert.NoError(t, err)
	assert.True(t, r.HasTool("echo"))
	assert.False(t, r.HasTool("other"))
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := New()

	err := r.Register("", echoHandler, nil)
	assert.Error(t, err)

	err = r.Register("bad", nil, nil)
	assert.Error(t, err)
	assert.False(t, r.HasTool("bad"))
}

func TestRegistry_Register_BadSchema(t *testing.T) {
	r := New()

	err := r.Register("bad", echoHandler, &Schema{
		Properties: map[string]Property{
			"a": {Type: "text"},
		},
	})
	assert.Error(t, err)
	assert.False(t, r.HasTool("bad"))
}

func TestRegistry_Register_Overwrite(t *testing.T) {
	r := New()

	implA := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return "a", nil
	}
	implB := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return "b", nil
	}

	require.NoError(t, r.Register("x", implA, nil))
	require.NoError(t, r.Register("x", implB, nil))

	result, err := r.Execute(context.Background(), "x", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "b", result)
}

func TestRegistry_Execute_Success(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("echo", echoHandler, nil))

	result, err := r.Execute(context.Background(), "echo", map[string]interface{}{
		"message": "Hello, World!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", result)
}

func TestRegistry_Execute_ToolNotFound(t *testing.T) {
	r := New()

	_, err := r.Execute(context.Background(), "nonexistent", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	var notFound *ToolNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent", notFound.Tool)

	// The tool map is unaffected.
	assert.Empty(t, r.RegisteredTools())
}

func TestRegistry_Execute_ValidationFailsFast(t *testing.T) {
	r := New()

	calls := 0
	handler := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		calls++
		return nil, nil
	}
	require.NoError(t, r.Register("strict", handler, &Schema{
		Required: []string{"a"},
	}))

	_, err := r.Execute(context.Background(), "strict", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required parameter: a")
	assert.Equal(t, 0, calls, "handler must not run on validation failure")

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "a", valErr.Field)
}

func TestRegistry_Execute_TypeMismatch(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("typed", echoHandler, &Schema{
		Properties: map[string]Property{
			"a": {Type: "number"},
		},
	}))

	_, err := r.Execute(context.Background(), "typed", map[string]interface{}{"a": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter a should be of type number, got string")

	_, err = r.Execute(context.Background(), "typed", map[string]interface{}{"a": 3})
	assert.NoError(t, err)
}

func TestRegistry_Execute_HandlerError(t *testing.T) {
	r := New()
	handlerErr := errors.New("backend unavailable")
	require.NoError(t, r.Register("failing", func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return nil, handlerErr
	}, nil))

	_, err := r.Execute(context.Background(), "failing", map[string]interface{}{})
	require.Error(t, err)

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "failing", execErr.Tool)
	assert.ErrorIs(t, err, handlerErr)
}

func TestRegistry_Execute_HandlerPanic(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("panicky", func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		panic("boom")
	}, nil))

	_, err := r.Execute(context.Background(), "panicky", map[string]interface{}{})
	require.Error(t, err)

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "boom")
}

func TestRegistry_Unregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("gone", echoHandler, nil))
	require.NoError(t, r.Register("kept", echoHandler, nil))

	r.Unregister("gone")
	assert.False(t, r.HasTool("gone"))
	assert.Equal(t, []string{"kept"}, r.RegisteredTools())
}

func TestRegistry_RegisteredTools_Sorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(name, echoHandler, nil))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.RegisteredTools())
}

func TestRegistry_ToolSchema(t *testing.T) {
	r := New()
	schema := &Schema{Required: []string{"a"}}
	require.NoError(t, r.Register("typed", echoHandler, schema))
	require.NoError(t, r.Register("plain", echoHandler, nil))

	assert.Equal(t, schema, r.ToolSchema("typed"))
	assert.Nil(t, r.ToolSchema("plain"))
	assert.Nil(t, r.ToolSchema("missing"))
}

func TestRegistry_Execute_Concurrent(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("echo", echoHandler, nil))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_, err := r.Execute(context.Background(), "echo", map[string]interface{}{
					"message": fmt.Sprintf("%d-%d", i, j),
				})
				assert.NoError(t, err)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, int64(400), r.ToolMetrics("echo").Usage)
}

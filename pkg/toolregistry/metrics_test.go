package toolregistry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_UsageAndErrors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("ok", echoHandler, nil))
	require.NoError(t, r.Register("bad", func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return nil, errors.New("nope")
	}, nil))

	for i := 0; i < 3; i++ {
		_, err := r.Execute(context.Background(), "ok", map[string]interface{}{})
		require.NoError(t, err)
	}
	_, err := r.Execute(context.Background(), "bad", map[string]interface{}{})
	require.Error(t, err)

	ok := r.ToolMetrics("ok")
	require.NotNil(t, ok)
	assert.Equal(t, int64(3), ok.Usage)
	assert.Equal(t, int64(0), ok.Errors)
	require.NotNil(t, ok.LastExecution)
	assert.True(t, ok.LastExecution.Success)
	assert.NotEmpty(t, ok.LastExecution.CorrelationID)
	assert.Nil(t, ok.LastError)

	bad := r.ToolMetrics("bad")
	require.NotNil(t, bad)
	assert.Equal(t, int64(1), bad.Usage)
	assert.Equal(t, int64(1), bad.Errors)
	require.NotNil(t, bad.LastError)
	assert.Contains(t, bad.LastError.Message, "nope")
	assert.False(t, bad.LastExecution.Success)
}

func TestMetrics_ValidationFailureNotCounted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("strict", echoHandler, &Schema{Required: []string{"a"}}))

	_, err := r.Execute(context.Background(), "strict", map[string]interface{}{})
	require.Error(t, err)

	// The handler never ran, so no execution is recorded.
	assert.Equal(t, int64(0), r.ToolMetrics("strict").Usage)
}

func TestMetrics_AverageExecutionTime(t *testing.T) {
	r := New()

	durations := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	}
	i := 0
	require.NoError(t, r.Register("slow", func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		time.Sleep(durations[i])
		i++
		return nil, nil
	}, nil))

	for range durations {
		_, err := r.Execute(context.Background(), "slow", map[string]interface{}{})
		require.NoError(t, err)
	}

	m := r.ToolMetrics("slow")
	require.NotNil(t, m)
	assert.Equal(t, int64(3), m.Usage)

	// Average is derived from the cumulative total.
	assert.Equal(t, m.TotalExecutionTime/3, m.AverageExecutionTime)
	assert.GreaterOrEqual(t, m.TotalExecutionTime, 60*time.Millisecond)
	assert.GreaterOrEqual(t, m.AverageExecutionTime, 20*time.Millisecond)
}

func TestMetrics_Snapshot(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("ok", echoHandler, nil))
	require.NoError(t, r.Register("bad", func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return nil, errors.New("nope")
	}, nil))

	for i := 0; i < 4; i++ {
		r.Execute(context.Background(), "ok", map[string]interface{}{})
	}
	r.Execute(context.Background(), "bad", map[string]interface{}{})

	snap := r.Metrics()
	assert.Equal(t, int64(5), snap.Executions)
	assert.Equal(t, int64(1), snap.Errors)
	assert.InDelta(t, 0.8, snap.SuccessRate, 1e-9)
	assert.Equal(t, int64(4), snap.ToolUsage["ok"])
	assert.Equal(t, []string{"bad", "ok"}, snap.RegisteredTools)
	assert.Equal(t, 2, snap.ToolCount)
	assert.False(t, snap.Timestamp.IsZero())
	assert.Contains(t, snap.LastError, "bad")
	assert.NotContains(t, snap.LastError, "ok")
}

func TestMetrics_Clear(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("ok", echoHandler, nil))
	r.Execute(context.Background(), "ok", map[string]interface{}{})

	r.ClearMetrics()

	m := r.ToolMetrics("ok")
	require.NotNil(t, m, "known tool names survive a clear")
	assert.Equal(t, int64(0), m.Usage)
	assert.Nil(t, m.LastExecution)

	snap := r.Metrics()
	assert.Equal(t, int64(0), snap.Executions)
	assert.Contains(t, snap.ToolUsage, "ok")
}

func TestMetrics_SurviveReregistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("x", echoHandler, nil))
	r.Execute(context.Background(), "x", map[string]interface{}{})

	require.NoError(t, r.Register("x", echoHandler, nil))
	assert.Equal(t, int64(1), r.ToolMetrics("x").Usage)
}

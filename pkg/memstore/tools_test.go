package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/kestrel/pkg/toolregistry"
)

func newToolRegistry(t *testing.T) *toolregistry.Registry {
	t.Helper()
	store := newTestStore(t)
	reg := toolregistry.New()
	require.NoError(t, RegisterTools(reg, store))
	return reg
}

func TestRegisterTools_RegistersAll(t *testing.T) {
	reg := newToolRegistry(t)
	for _, name := range []string{"memory_set", "memory_get", "memory_delete", "memory_list"} {
		assert.True(t, reg.HasTool(name), name)
	}
}

func TestMemoryTools_RoundTrip(t *testing.T) {
	reg := newToolRegistry(t)
	ctx := context.Background()

	_, err := reg.Execute(ctx, "memory_set", map[string]interface{}{
		"key": "city", "value": "Lisbon",
	})
	require.NoError(t, err)

	result, err := reg.Execute(ctx, "memory_get", map[string]interface{}{"key": "city"})
	require.NoError(t, err)
	got := result.(map[string]interface{})
	assert.Equal(t, "Lisbon", got["value"])

	result, err = reg.Execute(ctx, "memory_delete", map[string]interface{}{"key": "city"})
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]interface{})["deleted"])

	_, err = reg.Execute(ctx, "memory_get", map[string]interface{}{"key": "city"})
	require.Error(t, err)
}

func TestMemoryTools_ValidationEnforced(t *testing.T) {
	reg := newToolRegistry(t)

	_, err := reg.Execute(context.Background(), "memory_set", map[string]interface{}{"key": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required parameter: value")
}

func TestMemoryTools_List(t *testing.T) {
	reg := newToolRegistry(t)
	ctx := context.Background()

	for _, kv := range [][2]string{{"a:1", "x"}, {"a:2", "y"}, {"b:1", "z"}} {
		_, err := reg.Execute(ctx, "memory_set", map[string]interface{}{
			"key": kv[0], "value": kv[1],
		})
		require.NoError(t, err)
	}

	result, err := reg.Execute(ctx, "memory_list", map[string]interface{}{"prefix": "a:"})
	require.NoError(t, err)
	got := result.(map[string]interface{})
	assert.Equal(t, 2, got["count"])
}

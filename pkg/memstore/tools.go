package memstore

import (
	"context"
	"fmt"

	"github.com/harun/kestrel/pkg/toolregistry"
)

// RegisterTools registers the memory toolset (memory_set, memory_get,
// memory_delete, memory_list) against reg, backed by store.
func RegisterTools(reg *toolregistry.Registry, store *Store) error {
	tools := []struct {
		name    string
		handler toolregistry.Handler
		schema  *toolregistry.Schema
	}{
		{
			name: "memory_set",
			schema: &toolregistry.Schema{
				Required: []string{"key", "value"},
				Properties: map[string]toolregistry.Property{
					"key":   {Type: "string", Description: "Memory key"},
					"value": {Type: "string", Description: "Value to store"},
				},
			},
			handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				key, _ := params["key"].(string)
				value, _ := params["value"].(string)
				if err := store.Set(key, value); err != nil {
					return nil, err
				}
				return map[string]interface{}{"key": key, "stored": true}, nil
			},
		},
		{
			name: "memory_get",
			schema: &toolregistry.Schema{
				Required: []string{"key"},
				Properties: map[string]toolregistry.Property{
					"key": {Type: "string", Description: "Memory key"},
				},
			},
			handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				key, _ := params["key"].(string)
				value, found, err := store.Get(key)
				if err != nil {
					return nil, err
				}
				if !found {
					return nil, fmt.Errorf("no memory under key %q", key)
				}
				return map[string]interface{}{"key": key, "value": value}, nil
			},
		},
		{
			name: "memory_delete",
			schema: &toolregistry.Schema{
				Required: []string{"key"},
				Properties: map[string]toolregistry.Property{
					"key": {Type: "string", Description: "Memory key"},
				},
			},
			handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				key, _ := params["key"].(string)
				deleted, err := store.Delete(key)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"key": key, "deleted": deleted}, nil
			},
		},
		{
			name: "memory_list",
			schema: &toolregistry.Schema{
				Properties: map[string]toolregistry.Property{
					"prefix": {Type: "string", Description: "Key prefix filter"},
				},
			},
			handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				prefix, _ := params["prefix"].(string)
				entries, err := store.List(prefix)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"entries": entries, "count": len(entries)}, nil
			},
		},
	}

	for _, tool := range tools {
		if err := reg.Register(tool.name, tool.handler, tool.schema); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.name, err)
		}
	}
	return nil
}

package toolregistry

import (
	"fmt"
	"reflect"

	"github.com/xeipuuv/gojsonschema"
)

// Property declares the expected JSON type of a single parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema describes the constraints a parameters object must satisfy
// before a tool handler is invoked. A nil schema disables validation.
type Schema struct {
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

var validTypes = map[string]bool{
	"string": true, "number": true, "integer": true,
	"boolean": true, "array": true, "object": true,
}

// compile checks the schema itself is well formed by building it with
// gojsonschema. Malformed schemas fail at registration, not dispatch.
func (s *Schema) compile() error {
	properties := make(map[string]interface{}, len(s.Properties))
	for name, prop := range s.Properties {
		if !validTypes[prop.Type] {
			return fmt.Errorf("invalid type %q for property %s", prop.Type, name)
		}
		properties[name] = map[string]interface{}{"type": prop.Type}
	}

	schemaMap := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(s.Required) > 0 {
		schemaMap["required"] = s.Required
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap)); err != nil {
		return fmt.Errorf("schema does not compile: %w", err)
	}
	return nil
}

// validate checks params against the schema. Validation fails fast:
// the first violation is returned and the handler is never invoked.
func (s *Schema) validate(tool string, params map[string]interface{}) error {
	for _, field := range s.Required {
		if _, ok := params[field]; !ok {
			return &ValidationError{
				Tool:    tool,
				Field:   field,
				Message: fmt.Sprintf("missing required parameter: %s", field),
			}
		}
	}

	for field, prop := range s.Properties {
		value, ok := params[field]
		if !ok {
			continue
		}
		if err := checkType(tool, field, prop.Type, value); err != nil {
			return err
		}
	}

	return nil
}

func checkType(tool, field, declared string, value interface{}) error {
	actual := runtimeType(value)

	match := false
	switch declared {
	case "number", "integer":
		match = actual == "number"
	case "array":
		match = actual == "array"
	default:
		match = actual == declared
	}

	if !match {
		return &ValidationError{
			Tool:  tool,
			Field: field,
			Message: fmt.Sprintf("parameter %s should be of type %s, got %s",
				field, declared, actual),
		}
	}
	return nil
}

func runtimeType(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	case map[string]interface{}:
		return "object"
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

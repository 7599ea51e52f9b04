package tools

import (
	"encoding/json"
	"reflect"
	"strings"
)

// FunctionSchema defines the callable surface of a tool: its name, what it
// does, and the shape of the arguments object it expects. Based on a subset
// of the JSON Schema specification.
type FunctionSchema struct {
	// Name is the name of the function to be called.
	Name string `json:"name"`
	// Description is a description of what the function does.
	Description string `json:"description"`
	// Parameters is the schema for the arguments object that the function expects.
	Parameters ValueSchema `json:"parameters"`
}

// ValueSchema represents a schema for a value within the function's
// parameters, corresponding to a subset of the JSON Schema specification.
type ValueSchema struct {
	// Type specifies the data type of the value (e.g. "string", "integer", "object", "array", "boolean", "number").
	Type string `json:"type,omitempty"`
	// Description provides a brief explanation of the value or field.
	Description string `json:"description,omitempty"`
	// Items defines the schema for elements within an array. Only used when Type is "array".
	Items *ValueSchema `json:"items,omitempty"`
	// Properties defines the schema for properties within an object. Only used when Type is "object".
	// Note: We use a pointer to the map here to differentiate "no map" from "empty map".
	// See: https://github.com/golang/go/issues/22480
	Properties *map[string]ValueSchema `json:"properties,omitempty"`
	// Required lists the names of properties that must be present when Type is "object".
	Required []string `json:"required,omitempty"`
}

// generateSchema initializes and returns the main structure of a function's JSON Schema.
func generateSchema(name, description string, typ reflect.Type) FunctionSchema {
	return FunctionSchema{
		Name:        name,
		Description: description,
		Parameters:  generateObjectSchema(typ),
	}
}

// fieldTypeToJSONSchema maps Go data types to corresponding JSON Schema properties consistently.
func fieldTypeToJSONSchema(t reflect.Type) ValueSchema {
	switch t.Kind() {
	case reflect.String:
		return ValueSchema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ValueSchema{Type: "integer"}
	case reflect.Bool:
		return ValueSchema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return ValueSchema{Type: "number"}
	case reflect.Slice, reflect.Array:
		itemSchema := fieldTypeToJSONSchema(t.Elem())
		return ValueSchema{Type: "array", Items: &itemSchema}
	case reflect.Struct:
		return generateObjectSchema(t)
	case reflect.Ptr:
		return fieldTypeToJSONSchema(t.Elem())
	default:
		panic("unsupported type: " + t.Kind().String())
	}
}

// generateObjectSchema constructs a JSON Schema for structs. Fields are
// required unless their json tag carries omitempty.
func generateObjectSchema(typ reflect.Type) ValueSchema {
	properties := make(map[string]ValueSchema)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		parts := strings.Split(jsonTag, ",")
		fieldName := field.Name
		if parts[0] != "" {
			fieldName = parts[0]
		}

		fieldSchema := fieldTypeToJSONSchema(field.Type)
		if description := field.Tag.Get("description"); description != "" {
			fieldSchema.Description = description
		}
		properties[fieldName] = fieldSchema
		if len(parts) == 1 || parts[1] != "omitempty" {
			required = append(required, fieldName)
		}
	}
	return ValueSchema{
		Type:       "object",
		Properties: &properties,
		Required:   required,
	}
}

// validateJSON checks that jsonData conforms to the schema from
// generateSchema. Violations are reported as *ParamError naming the
// offending field.
func validateJSON(schema *FunctionSchema, jsonData json.RawMessage) error {
	return validateParameters(schema.Parameters, jsonData)
}

func validateParameters(schema ValueSchema, jsonData json.RawMessage) error {
	if schema.Type != "object" || schema.Properties == nil {
		return &ParamError{Reason: "schema error: received an invalid object schema"}
	}

	var dataMap map[string]any
	if err := json.Unmarshal(jsonData, &dataMap); err != nil {
		return &ParamError{Reason: "arguments must be a JSON object"}
	}

	for key, val := range dataMap {
		fieldSchema, found := (*schema.Properties)[key]
		if !found {
			// Unknown fields are allowed; they are dropped at unmarshal time.
			continue
		}
		if err := validateField(key, fieldSchema, val); err != nil {
			return err
		}
	}

	for _, field := range schema.Required {
		if _, exists := dataMap[field]; !exists {
			return &ParamError{Param: field, Reason: "missing required parameter"}
		}
	}

	return nil
}

// validateField checks a single named field against its schema.
func validateField(name string, fieldSchema ValueSchema, data any) error {
	mismatch := func(want string) error {
		return &ParamError{Param: name, Reason: "expected " + want}
	}

	switch fieldSchema.Type {
	case "integer":
		num, ok := data.(float64)
		if !ok || num != float64(int(num)) {
			return mismatch("integer")
		}
	case "number":
		if _, ok := data.(float64); !ok {
			return mismatch("number")
		}
	case "string":
		if _, ok := data.(string); !ok {
			return mismatch("string")
		}
	case "boolean":
		if _, ok := data.(bool); !ok {
			return mismatch("boolean")
		}
	case "array":
		items, ok := data.([]any)
		if !ok {
			return mismatch("array")
		}
		if fieldSchema.Items == nil {
			return &ParamError{Param: name, Reason: "schema error: missing item schema for array"}
		}
		for _, item := range items {
			if err := validateField(name, *fieldSchema.Items, item); err != nil {
				return err
			}
		}
	case "object":
		properties, ok := data.(map[string]any)
		if !ok {
			return mismatch("object")
		}
		nested, err := json.Marshal(properties)
		if err != nil {
			return &ParamError{Param: name, Reason: "failed to re-encode object for validation"}
		}
		return validateParameters(fieldSchema, nested)
	default:
		return &ParamError{Param: name, Reason: "unsupported schema type: " + fieldSchema.Type}
	}
	return nil
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

type Tool interface {
	// Name returns the method name the tool is invoked by.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Call runs the tool with the provided raw JSON arguments.
	Call(ctx context.Context, args json.RawMessage) (Result, error)
	// Schema returns the JSON schema for the tool's arguments.
	Schema() *FunctionSchema
}

// Result is the outcome of a successful tool run.
type Result interface {
	// Text returns the primary textual payload of the result.
	Text() string
}

// Text wraps a plain string as a tool result.
type Text string

func (t Text) Text() string { return string(t) }

var jsonRawMessageType = reflect.TypeOf(json.RawMessage{})

// Func returns a tool for a handler function with the given name and
// description. The argument schema is generated from the Params struct, and
// incoming arguments are validated against it before fn is called: fn never
// sees a missing required field or a mistyped value.
func Func[Params any](name, description string, fn func(ctx context.Context, params Params) (Result, error)) Tool {
	var zeroParams Params
	schemaType := reflect.TypeOf(zeroParams)
	if schemaType.Kind() != reflect.Struct && schemaType != jsonRawMessageType {
		panic("Params must be a struct or json.RawMessage")
	}
	var t *tool
	t = &tool{
		name:        name,
		description: description,
		schemaType:  schemaType,
		fn: func(ctx context.Context, args json.RawMessage) (Result, error) {
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			if err := t.validateArgs(args); err != nil {
				return nil, err
			}
			var p Params
			if err := json.Unmarshal(args, &p); err != nil {
				return nil, &ParamError{Reason: fmt.Sprintf("failed to decode arguments: %v", err)}
			}
			return fn(ctx, p)
		},
	}
	return t
}

type tool struct {
	name, description string

	fn func(ctx context.Context, args json.RawMessage) (Result, error)

	// Note: Lazily initialized.
	schema     *FunctionSchema
	schemaOnce sync.Once
	schemaType reflect.Type
}

func (t *tool) Name() string {
	return t.name
}

func (t *tool) Description() string {
	return t.description
}

func (t *tool) Call(ctx context.Context, args json.RawMessage) (Result, error) {
	return t.fn(ctx, args)
}

func (t *tool) Schema() *FunctionSchema {
	t.schemaOnce.Do(func() {
		schema := generateSchema(t.name, t.description, t.schemaType)
		t.schema = &schema
	})
	return t.schema
}

func (t *tool) validateArgs(args json.RawMessage) error {
	if t.schemaType == jsonRawMessageType {
		// All data is valid json.RawMessage data.
		return nil
	}
	return validateJSON(t.Schema(), args)
}

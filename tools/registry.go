package tools

import (
	"fmt"
)

// Registry is the catalogue of available tools, keyed by exact name. It is
// built once at process start and never mutated afterwards, which gives
// concurrent dispatchers a lock-free read path.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry returns a Registry containing the given tools. Registering two
// tools under the same name is a configuration error and fails the whole
// registry, so startup can abort before serving any request.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool),
	}
	for _, tool := range tools {
		if err := r.register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(tool Tool) error {
	name := tool.Name()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	// Be nil-safe so callers can iterate even when the registry hasn't been configured.
	tools := []Tool{}
	if r == nil {
		return tools
	}
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Resolve returns the tool with the given name. Lookup is case-sensitive and
// matches the registered name exactly.
func (r *Registry) Resolve(name string) (Tool, bool) {
	// Be nil-safe so code paths that receive unexpected tool calls don't panic.
	if r == nil {
		return nil, false
	}
	tool, ok := r.tools[name]
	return tool, ok
}

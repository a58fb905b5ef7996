// Package registry holds the server-side feature registries: tools,
// prompts, resources (concrete and templated), roots, and subscriptions.
// Each is a name/uri-keyed map guarded by its own mutex; none of them know
// about the wire format or the engine that drives them.
package registry

import (
	"sort"
	"sync"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// ToolHandler executes a tools/call invocation for one registered tool.
type ToolHandler func(arguments map[string]any) (protocol.CallToolResult, error)

// Tools is a name-keyed registry of tool definitions and their handlers.
type Tools struct {
	mu       sync.RWMutex
	tools    map[string]protocol.Tool
	handlers map[string]ToolHandler
}

// NewTools builds an empty tool registry.
func NewTools() *Tools {
	return &Tools{
		tools:    make(map[string]protocol.Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// Add registers tool under its Name. It returns false without changing
// anything if a tool with that name is already registered.
func (r *Tools) Add(tool protocol.Tool, handler ToolHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return false
	}
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
	return true
}

// Remove unregisters a tool by name. It is idempotent: removing an
// already-absent tool reports false but is not an error.
func (r *Tools) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		return false
	}
	delete(r.tools, name)
	delete(r.handlers, name)
	return true
}

// Get returns the tool definition and handler registered under name.
func (r *Tools) Get(name string) (protocol.Tool, ToolHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	if !ok {
		return protocol.Tool{}, nil, false
	}
	return tool, r.handlers[name], true
}

// List returns every registered tool, sorted by name for a stable
// tools/list ordering.
func (r *Tools) List() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len reports how many tools are registered.
func (r *Tools) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

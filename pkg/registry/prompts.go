package registry

import (
	"sort"
	"sync"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// PromptHandler renders a prompts/get request for one registered prompt,
// given the caller-supplied arguments.
type PromptHandler func(arguments map[string]string) (protocol.GetPromptResult, error)

// Prompts is a name-keyed registry of prompt definitions and renderers.
type Prompts struct {
	mu       sync.RWMutex
	prompts  map[string]protocol.Prompt
	handlers map[string]PromptHandler
}

// NewPrompts builds an empty prompt registry.
func NewPrompts() *Prompts {
	return &Prompts{
		prompts:  make(map[string]protocol.Prompt),
		handlers: make(map[string]PromptHandler),
	}
}

// Add registers prompt under its Name; returns false if already present.
func (r *Prompts) Add(prompt protocol.Prompt, handler PromptHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.prompts[prompt.Name]; exists {
		return false
	}
	r.prompts[prompt.Name] = prompt
	r.handlers[prompt.Name] = handler
	return true
}

// Remove unregisters a prompt by name; idempotent.
func (r *Prompts) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.prompts[name]; !exists {
		return false
	}
	delete(r.prompts, name)
	delete(r.handlers, name)
	return true
}

// Get returns the prompt definition and renderer registered under name.
func (r *Prompts) Get(name string) (protocol.Prompt, PromptHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prompts[name]
	if !ok {
		return protocol.Prompt{}, nil, false
	}
	return p, r.handlers[name], true
}

// List returns every registered prompt, sorted by name.
func (r *Prompts) List() []protocol.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

package registry

import (
	"sort"
	"sync"

	"github.com/richard-senior/mcp/pkg/protocol"
)

// Roots is a client-side, URI-keyed registry of filesystem roots exposed
// to the server. Every Root must carry a file:// URI.
type Roots struct {
	mu    sync.RWMutex
	roots map[string]protocol.Root
}

// NewRoots builds an empty root registry.
func NewRoots() *Roots {
	return &Roots{roots: make(map[string]protocol.Root)}
}

// Add registers root; returns false if its URI is not file:// or already
// registered.
func (r *Roots) Add(root protocol.Root) bool {
	if !root.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.roots[root.URI]; exists {
		return false
	}
	r.roots[root.URI] = root
	return true
}

// Remove unregisters a root by URI; idempotent.
func (r *Roots) Remove(uri string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.roots[uri]; !exists {
		return false
	}
	delete(r.roots, uri)
	return true
}

// List returns every registered root, sorted by URI.
func (r *Roots) List() []protocol.Root {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Root, 0, len(r.roots))
	for _, root := range r.roots {
		out = append(out, root)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

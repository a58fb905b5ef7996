package registry

import (
	"sort"
	"sync"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/uritemplate"
)

// ResourceHandler reads one concrete resource's contents for resources/read.
type ResourceHandler func(uri string) (protocol.ReadResourceResult, error)

// TemplatedResourceHandler reads a resource matched via a URI template; the
// bound template variables are passed alongside the full uri.
type TemplatedResourceHandler func(uri string, vars map[string]string) (protocol.ReadResourceResult, error)

// templatedEntry pairs a compiled template with its declaration and
// handler. Templates are tried in insertion order; the first to match
// wins, so an earlier, more specific template registered first always
// takes precedence over a broader one added later.
type templatedEntry struct {
	template *uritemplate.Template
	decl     protocol.ResourceTemplate
	handler  TemplatedResourceHandler
}

// Resources holds concrete, URI-keyed resources and a separate ordered
// index of URI-templated resources.
type Resources struct {
	mu sync.RWMutex

	concrete map[string]protocol.Resource
	handlers map[string]ResourceHandler

	templated []templatedEntry
}

// NewResources builds an empty resource registry.
func NewResources() *Resources {
	return &Resources{
		concrete: make(map[string]protocol.Resource),
		handlers: make(map[string]ResourceHandler),
	}
}

// AddConcrete registers a single URI-addressed resource; returns false if
// that URI is already registered.
func (r *Resources) AddConcrete(res protocol.Resource, handler ResourceHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.concrete[res.URI]; exists {
		return false
	}
	r.concrete[res.URI] = res
	r.handlers[res.URI] = handler
	return true
}

// RemoveConcrete unregisters a resource by URI; idempotent.
func (r *Resources) RemoveConcrete(uri string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.concrete[uri]; !exists {
		return false
	}
	delete(r.concrete, uri)
	delete(r.handlers, uri)
	return true
}

// AddTemplate registers a URI template. Multiple templates may compile to
// overlapping matches; the first one added that matches a given URI always
// wins in Resolve.
func (r *Resources) AddTemplate(decl protocol.ResourceTemplate, handler TemplatedResourceHandler) error {
	tmpl, err := uritemplate.Compile(decl.URITemplate)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templated = append(r.templated, templatedEntry{template: tmpl, decl: decl, handler: handler})
	return nil
}

// Resolve looks up a URI, first against concrete resources, then against
// registered templates in insertion order (first match wins).
func (r *Resources) Resolve(uri string) (ResourceHandler, TemplatedResourceHandler, map[string]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handlers[uri]; ok {
		return h, nil, nil, true
	}
	for _, e := range r.templated {
		if vars, ok := e.template.Match(uri); ok {
			return nil, e.handler, vars, true
		}
	}
	return nil, nil, nil, false
}

// ListConcrete returns every concrete resource, sorted by URI.
func (r *Resources) ListConcrete() []protocol.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Resource, 0, len(r.concrete))
	for _, res := range r.concrete {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// ListTemplates returns every registered template declaration, in
// insertion order.
func (r *Resources) ListTemplates() []protocol.ResourceTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.ResourceTemplate, 0, len(r.templated))
	for _, e := range r.templated {
		out = append(out, e.decl)
	}
	return out
}

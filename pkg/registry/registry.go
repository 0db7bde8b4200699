// Package registry maps output format names to graph renderers.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/fsmview/pkg/fsm"
)

// ErrUnknownFormat is returned when no renderer is registered under a name.
var ErrUnknownFormat = errors.New("unknown format")

// RenderFunc turns a build result into bytes of one output format.
type RenderFunc func(ctx context.Context, res *fsm.Result) ([]byte, error)

// Renderer is a registered output format.
type Renderer struct {
	Name        string
	ContentType string
	Render      RenderFunc
}

// Registry manages the available output formats.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a format to the registry.
// If a format with the same name exists, it is overwritten.
func (r *Registry) Register(name, contentType string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[name] = Renderer{Name: name, ContentType: contentType, Render: fn}
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rn, ok := r.renderers[name]
	if !ok {
		return Renderer{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return rn, nil
}

// Render looks up a format by name and renders the result with it.
func (r *Registry) Render(ctx context.Context, name string, res *fsm.Result) ([]byte, string, error) {
	rn, err := r.Lookup(name)
	if err != nil {
		return nil, "", err
	}
	out, err := rn.Render(ctx, res)
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, rn.ContentType, nil
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

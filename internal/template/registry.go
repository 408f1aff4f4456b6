// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package template

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/coalesce"
)

// Module is the interface every template module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the templates and per-category coalescers of one
// application instance. It is populated at composition time and read-only
// afterwards.
type Registry struct {
	templates  map[string]Template
	coalescers map[string]coalesce.Coalescer
}

// NewRegistry creates a registry and registers every given module into it.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{
		templates:  make(map[string]Template),
		coalescers: make(map[string]coalesce.Coalescer),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterTemplate adds a template. Registering two templates under the same
// name is a programming error and panics.
func (r *Registry) RegisterTemplate(t Template) {
	name := t.Name()
	if _, exists := r.templates[name]; exists {
		panic(fmt.Sprintf("template %q is already registered", name))
	}
	r.templates[name] = t
}

// RegisterCoalescer sets the coalescer for a batch category. Duplicate
// registration panics.
func (r *Registry) RegisterCoalescer(category string, c coalesce.Coalescer) {
	if _, exists := r.coalescers[category]; exists {
		panic(fmt.Sprintf("coalescer for category %q is already registered", category))
	}
	r.coalescers[category] = c
}

// Template looks up a template by name.
func (r *Registry) Template(name string) (Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Coalescer looks up the coalescer of a batch category.
func (r *Registry) Coalescer(category string) (coalesce.Coalescer, bool) {
	c, ok := r.coalescers[category]
	return c, ok
}

// Templates returns every registered template ordered by name.
func (r *Registry) Templates() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, name := range slices.Sorted(maps.Keys(r.templates)) {
		out = append(out, r.templates[name])
	}
	return out
}

// Categories returns the batch categories that have a coalescer, sorted.
func (r *Registry) Categories() []string {
	return slices.Sorted(maps.Keys(r.coalescers))
}

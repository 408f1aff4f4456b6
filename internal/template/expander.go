// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package template

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// MaxDepth bounds how deeply templates may invoke other templates.
const MaxDepth = 8

// Expander expands specs against a fixed registry and ambient configuration.
type Expander struct {
	registry *Registry
	ambient  Ambient
	globals  map[string]options.Values
}

// NewExpander creates an expander. globals holds option values per template
// name that apply to every invocation of that template unless the spec sets
// the option itself.
func NewExpander(registry *Registry, ambient Ambient, globals map[string]options.Values) *Expander {
	g := make(map[string]options.Values, len(globals))
	for name, vals := range globals {
		g[name] = maps.Clone(vals)
	}
	return &Expander{
		registry: registry,
		ambient:  ambient.clone(),
		globals:  g,
	}
}

// Ambient returns the configuration the expander was built with.
func (e *Expander) Ambient() Ambient {
	return e.ambient.clone()
}

// Expand turns a single spec into its execution units, primary unit first.
//
// Option validation failures are returned as *options.ValidationError; every
// other failure is an *ExpansionError.
func (e *Expander) Expand(ctx context.Context, spec Spec) ([]unit.Unit, error) {
	logger := ctxlog.FromContext(ctx).With("spec", spec.Label(), "template", spec.Template)

	units, err := e.expand(spec, 0)
	if err != nil {
		logger.Debug("Expansion failed.", "error", err)
		return nil, err
	}
	logger.Debug("Expanded spec.", "units", len(units), "eject", e.ambient.Eject)
	return units, nil
}

// Result is the outcome of expanding one spec as part of ExpandAll.
type Result struct {
	Spec  Spec
	Units []unit.Unit
	Err   error
}

// ExpandAll expands every spec independently. A failing spec is reported in
// its own Result and does not affect the others.
func (e *Expander) ExpandAll(ctx context.Context, specs []Spec) []Result {
	results := make([]Result, len(specs))
	failed := 0
	for i, spec := range specs {
		units, err := e.Expand(ctx, spec)
		results[i] = Result{Spec: spec, Units: units, Err: err}
		if err != nil {
			failed++
		}
	}
	ctxlog.FromContext(ctx).Debug("Expanded specs.", "total", len(specs), "failed", failed)
	return results
}

func (e *Expander) expand(spec Spec, depth int) ([]unit.Unit, error) {
	fail := func(err error) error {
		return &ExpansionError{Template: spec.Template, Spec: spec.Label(), Err: err}
	}

	if depth > MaxDepth {
		return nil, fail(ErrTooDeep)
	}
	tpl, ok := e.registry.Template(spec.Template)
	if !ok {
		return nil, fail(ErrUnknownTemplate)
	}

	given := options.Merge(spec.Options, e.globals[spec.Template])
	opts, err := tpl.Schema().Validate(tpl.Name(), given)
	if err != nil {
		return nil, err
	}

	items, err := tpl.Expand(spec.clone(), opts, e.ambient.clone())
	if err != nil {
		var expErr *ExpansionError
		if errors.As(err, &expErr) {
			return nil, err
		}
		return nil, fail(err)
	}
	if len(items) == 0 || items[0].Unit == nil {
		return nil, fail(ErrNoPrimary)
	}
	if e.ambient.Eject {
		items = items[:1]
	}

	var units []unit.Unit
	for i, item := range items {
		switch {
		case item.Unit != nil:
			u := item.Unit.Clone()
			if u.Category == "" {
				u.Category = tpl.Name()
			}
			if err := u.Validate(); err != nil {
				return nil, fail(err)
			}
			units = append(units, u)
		case item.Spec != nil:
			nested, err := e.expand(*item.Spec, depth+1)
			if err != nil {
				return nil, fail(err)
			}
			units = append(units, nested...)
		default:
			return nil, fail(fmt.Errorf("item %d is empty", i))
		}
	}
	return units, nil
}

// InheritOption copies key from src into dst when src carries it. Templates
// use it to forward options such as auto_install to nested invocations only
// when the user actually set them.
func InheritOption(dst, src options.Values, key string) {
	if v, ok := src[key]; ok {
		dst[key] = v
	}
}

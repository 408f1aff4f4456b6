// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package template

import (
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Spec is a declarative build step that names a template.
type Spec struct {
	Name     string
	Template string
	Targets  []string
	Deps     []string
	Env      map[string]string
	Options  options.Values

	// Source is the file the spec was declared in, if any.
	Source string
}

// Label returns a human readable handle for the spec.
func (s Spec) Label() string {
	switch {
	case s.Name != "":
		return s.Name
	case len(s.Targets) > 0:
		return s.Targets[0]
	default:
		return s.Template
	}
}

// Item is one element of a template's output: either a unit or a nested
// template invocation. Exactly one of the fields is set.
type Item struct {
	Unit *unit.Unit
	Spec *Spec
}

// UnitItem wraps a unit as an Item.
func UnitItem(u unit.Unit) Item {
	return Item{Unit: &u}
}

// SpecItem wraps a nested spec as an Item.
func SpecItem(s Spec) Item {
	return Item{Spec: &s}
}

// Template expands one kind of build spec.
type Template interface {
	// Name is the identifier specs use to select the template.
	Name() string
	// Schema lists every option the template recognizes.
	Schema() options.Schema
	// Expand produces the template's items. opts has already been
	// validated against Schema and carries every defaulted option.
	Expand(spec Spec, opts options.Values, ambient Ambient) ([]Item, error)
}

// Ambient is the configuration every expansion shares. It is passed by value
// and never modified by templates.
type Ambient struct {
	// SearchPath is the executable search path, as found in PATH.
	SearchPath string
	// Eject strips every template managed unit and dependency.
	Eject bool
	// Env is the inherited environment.
	Env map[string]string
}

// PathSeparator derives the path separator from the first '/' or '\' that
// appears in SearchPath. It defaults to '/'.
func (a Ambient) PathSeparator() byte {
	if i := strings.IndexAny(a.SearchPath, `/\`); i >= 0 {
		return a.SearchPath[i]
	}
	return '/'
}

// IsWindows reports whether the search path uses Windows separators.
func (a Ambient) IsWindows() bool {
	return a.PathSeparator() == '\\'
}

// SearchPathEntries splits SearchPath into its entries, using ';' as the list
// separator for Windows style paths and ':' otherwise.
func (a Ambient) SearchPathEntries() []string {
	if a.SearchPath == "" {
		return nil
	}
	sep := ":"
	if a.IsWindows() {
		sep = ";"
	}
	return strings.Split(a.SearchPath, sep)
}

func (a Ambient) clone() Ambient {
	c := a
	if a.Env != nil {
		c.Env = maps.Clone(a.Env)
	}
	return c
}

func (s Spec) clone() Spec {
	c := s
	c.Targets = slices.Clone(s.Targets)
	c.Deps = slices.Clone(s.Deps)
	if s.Env != nil {
		c.Env = maps.Clone(s.Env)
	}
	if s.Options != nil {
		c.Options = maps.Clone(s.Options)
	}
	return c
}

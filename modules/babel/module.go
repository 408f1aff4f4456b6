// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package babel provides the Babel transpilation template.
package babel

import (
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Name is both the template name and the batch category.
const Name = "babel"

// RCMarker appears in the run text of every .babelrc creation unit.
const RCMarker = "Creating .babelrc"

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the babel template and the coalescer that keeps
// .babelrc creation to a single run.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
	r.RegisterCoalescer(Name, coalesce.Chain{
		coalesce.Singleton{Classify: coalesce.RunContains(RCMarker)},
	})
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package swc provides the SWC compilation template.
package swc

import (
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Name is both the template name and the batch category.
const Name = "swc"

// RCMarker appears in the run text of every .swcrc creation unit.
const RCMarker = "Creating .swcrc"

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the swc template and the coalescer that keeps .swcrc
// creation to a single run.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
	r.RegisterCoalescer(Name, coalesce.Chain{
		coalesce.Singleton{Classify: coalesce.RunContains(RCMarker)},
	})
}

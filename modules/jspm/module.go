// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package jspm provides the import map generation template.
package jspm

import (
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Name is the template name.
const Name = "jspm"

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the jspm template.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
}

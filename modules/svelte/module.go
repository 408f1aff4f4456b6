// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package svelte provides the Svelte component compilation template.
package svelte

import (
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Name is the template name.
const Name = "svelte"

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the svelte template.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
}

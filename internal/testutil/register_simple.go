// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package testutil

import (
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single template and, optionally, a coalescer.
type SimpleModule struct {
	Template template.Template

	Category  string
	Coalescer coalesce.Coalescer
}

// Register implements the template.Module interface.
func (m *SimpleModule) Register(r *template.Registry) {
	if m.Template != nil {
		r.RegisterTemplate(m.Template)
	}
	if m.Category != "" && m.Coalescer != nil {
		r.RegisterCoalescer(m.Category, m.Coalescer)
	}
}

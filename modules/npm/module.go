// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package npm provides the package installation template and the coalescer
// that serializes package manager invocations.
package npm

import (
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Name is both the template name and the batch category.
const Name = "npm"

// InitName names the bootstrap unit that creates package.json.
const InitName = "npm:init"

// Managers are the package manager executables whose install requests are
// merged. Each manager is its own family.
var Managers = []string{"npm", "pnpm"}

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the npm template and coalescer.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
	r.RegisterCoalescer(Name, NewCoalescer(Managers...))
}

// NewCoalescer returns the coalescer for the npm category.
//
// Per manager, "<manager> init -y" is a singleton that completes onto any
// running unit of the same manager. Install requests are merged per manager
// and mode and queue while the manager is busy, including behind an init
// started in the same tick.
func NewCoalescer(managers ...string) coalesce.Chain {
	grammar := coalesce.NpmInstallGrammar(managers...)
	chain := make(coalesce.Chain, 0, len(managers)+1)
	for _, m := range managers {
		chain = append(chain, coalesce.Singleton{
			Classify:          coalesce.RunIs(m, "init", "-y"),
			RunningEquivalent: coalesce.InFamily(grammar, m),
		})
	}
	return append(chain, coalesce.Mutation{Grammar: grammar})
}

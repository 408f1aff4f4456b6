// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/modules/babel"
	"github.com/specialistvlad/gridbuild/modules/cargo"
	"github.com/specialistvlad/gridbuild/modules/jspm"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/specialistvlad/gridbuild/modules/prettier"
	"github.com/specialistvlad/gridbuild/modules/svelte"
	"github.com/specialistvlad/gridbuild/modules/swc"
)

// coreModules is the definitive list of all template modules that are
// compiled into the gridbuild binary.
var coreModules = []template.Module{
	&npm.Module{},
	&babel.Module{},
	&swc.Module{},
	&prettier.Module{},
	&svelte.Module{},
	&jspm.Module{},
	&cargo.Module{},
}

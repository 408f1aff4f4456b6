// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package cargo provides the template that installs a Rust binary crate with
// cargo install.
package cargo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Name is both the template name and the batch category.
const Name = "cargo"

// ErrNoCargoBin is returned when no search path entry is a cargo bin directory.
var ErrNoCargoBin = errors.New("no .cargo/bin directory found in the search path")

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the cargo template and a coalescer that keeps cargo
// installs single-flight.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
	r.RegisterCoalescer(Name, coalesce.Chain{
		coalesce.Mutation{Grammar: coalesce.InstallGrammar{
			Tools:     []string{"cargo"},
			Operation: "install",
			ModeFlags: map[string]string{"--locked": "--locked", "--force": "--force"},
		}},
	})
}

// Input defines the options of the cargo template.
type Input struct {
	Bin     string `opt:"bin"`
	Install string `opt:"install"`
}

var schema = options.Schema{
	options.Required(options.String("bin", "", "Binary the crate installs.")),
	options.Required(options.String("install", "", "Arguments to cargo install, usually the crate name.")),
}

// Template installs a binary into the cargo bin directory when it is missing.
type Template struct{}

// Name implements template.Template.
func (Template) Name() string { return Name }

// Schema implements template.Template.
func (Template) Schema() options.Schema { return schema }

// Expand implements template.Template.
func (Template) Expand(spec template.Spec, opts options.Values, ambient template.Ambient) ([]template.Item, error) {
	var in Input
	if err := options.Decode(opts, &in); err != nil {
		return nil, err
	}
	if in.Bin == "" || in.Install == "" {
		return nil, errors.New(`the "bin" and "install" options must not be empty`)
	}

	target, err := BinPath(ambient, in.Bin)
	if err != nil {
		return nil, err
	}

	name := spec.Name
	if name == "" {
		name = "cargo:" + in.Bin
	}
	return []template.Item{template.UnitItem(unit.Unit{
		Name:         name,
		Targets:      []string{target},
		Deps:         spec.Deps,
		Env:          spec.Env,
		Invalidation: unit.InvalidationNotFound,
		Display:      unit.DisplayNone,
		Run:          command.New("cargo").Arg("install").Arg(strings.Fields(in.Install)...).String(),
	})}, nil
}

// BinPath locates the cargo bin directory in the search path and returns the
// path bin is installed to, with .exe appended on Windows.
func BinPath(ambient template.Ambient, bin string) (string, error) {
	sep := string(ambient.PathSeparator())
	suffix := ".cargo" + sep + "bin"
	for _, entry := range ambient.SearchPathEntries() {
		entry = strings.TrimSuffix(entry, sep)
		if !strings.HasSuffix(entry, suffix) {
			continue
		}
		path := entry + sep + bin
		if ambient.IsWindows() {
			path += ".exe"
		}
		return path, nil
	}
	return "", fmt.Errorf("%w (bin %q)", ErrNoCargoBin, bin)
}

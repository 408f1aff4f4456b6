// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package prettier provides the Prettier formatting template.
package prettier

import (
	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/zclconf/go-cty/cty"
)

// Name is the template name.
const Name = "prettier"

// Module implements the template.Module interface for this package.
type Module struct{}

// Register registers the prettier template.
func (m *Module) Register(r *template.Registry) {
	r.RegisterTemplate(Template{})
}

// Input defines the options of the prettier template.
type Input struct {
	Files                     string `opt:"files"`
	Check                     bool   `opt:"check"`
	Write                     bool   `opt:"write"`
	Config                    string `opt:"config"`
	NoErrorOnUnmatchedPattern bool   `opt:"no_error_on_unmatched_pattern"`
}

var schema = options.Schema{
	options.String("files", ".", "Files or globs to format."),
	options.Bool("check", false, "Only check formatting."),
	options.Bool("write", true, "Rewrite files in place."),
	options.String("config", "", "Prettier config file."),
	options.Bool("no_error_on_unmatched_pattern", false, "Do not fail when a pattern matches nothing."),
	options.Optional(options.Bool("auto_install", false, "Install Prettier automatically. Inherits the npm template's default.")),
}

// Template runs Prettier over a set of files on every build.
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

	run := command.New("prettier").
		Arg(in.Files).
		ArgIf(in.Check, "--check").
		ArgIf(in.Write, "--write").
		ArgIf(in.Config != "", "--config", in.Config).
		ArgIf(in.NoErrorOnUnmatchedPattern, "--no-error-on-unmatched-pattern")

	primary := unit.Unit{
		Name:         spec.Name,
		Targets:      spec.Targets,
		Deps:         spec.Deps,
		Env:          spec.Env,
		Invalidation: unit.InvalidationAlways,
		Run:          run.String(),
	}
	if ambient.Eject {
		return []template.Item{template.UnitItem(primary)}, nil
	}
	primary.Deps = append(primary.Deps, "node_modules/prettier")

	installOpts := options.Values{
		"packages": options.ListOf("prettier"),
		"dev":      cty.True,
	}
	template.InheritOption(installOpts, opts, "auto_install")
	return []template.Item{
		template.UnitItem(primary),
		template.SpecItem(template.Spec{Template: npm.Name, Env: spec.Env, Options: installOpts}),
	}, nil
}

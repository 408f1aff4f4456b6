// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package npm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

var errNoPackages = errors.New(`the "packages" option must list at least one package`)

// Input defines the options of the npm template.
type Input struct {
	Packages       []string `opt:"packages"`
	Dev            bool     `opt:"dev"`
	PackageManager string   `opt:"package_manager"`
	AutoInstall    bool     `opt:"auto_install"`
}

var schema = options.Schema{
	options.Required(options.StringList("packages", "Packages to install, optionally with a version (left-pad@1).")),
	options.Bool("dev", false, "Install as development dependencies."),
	options.String("package_manager", "npm", "Package manager executable."),
	options.Bool("auto_install", false, "Install missing packages instead of printing instructions."),
}

// Template expands a list of packages into the units that install them.
type Template struct{}

// Name implements template.Template.
func (Template) Name() string { return Name }

// Schema implements template.Template.
func (Template) Schema() options.Schema { return schema }

// Expand implements template.Template.
//
// With auto_install the primary unit is a serial aggregator over one install
// unit per distinct package, each waiting on the package.json bootstrap unit.
// Without it a single advisory unit targets the expected node_modules paths
// and prints the install command.
func (Template) Expand(spec template.Spec, opts options.Values, ambient template.Ambient) ([]template.Item, error) {
	var in Input
	if err := options.Decode(opts, &in); err != nil {
		return nil, err
	}
	if err := validatePackages(in.Packages); err != nil {
		return nil, err
	}

	if ambient.Eject {
		return []template.Item{template.UnitItem(unit.Unit{
			Name:   spec.Name,
			Deps:   spec.Deps,
			Env:    spec.Env,
			Serial: true,
		})}, nil
	}

	install := InstallCommand(in.PackageManager, in.Packages, in.Dev).String()
	paths := modulePaths(in.Packages)

	if !in.AutoInstall {
		msg := fmt.Sprintf("Some packages are missing. Please run %s", install)
		return []template.Item{template.UnitItem(unit.Unit{
			Name:         spec.Name,
			Targets:      paths,
			Deps:         spec.Deps,
			Env:          spec.Env,
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run:          command.New("echo").Arg(fmt.Sprintf("%q", msg)).String(),
		})}, nil
	}

	items := []template.Item{template.UnitItem(unit.Unit{
		Name:   spec.Name,
		Deps:   append(spec.Deps, paths...),
		Env:    spec.Env,
		Serial: true,
	})}
	for _, path := range paths {
		items = append(items, template.UnitItem(unit.Unit{
			Targets:      []string{path},
			Deps:         []string{InitName},
			Env:          spec.Env,
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run:          install,
		}))
	}
	items = append(items, template.UnitItem(unit.Unit{
		Name:         InitName,
		Targets:      []string{"package.json"},
		Env:          spec.Env,
		Invalidation: unit.InvalidationNotFound,
		Display:      unit.DisplayNone,
		Run:          command.New(in.PackageManager).Arg("init", "-y").String(),
	}))
	return items, nil
}

// InstallCommand builds "<manager> install <packages...> [-D]".
func InstallCommand(manager string, packages []string, dev bool) *command.Command {
	return command.New(manager).
		Arg("install").
		Arg(packages...).
		ArgIf(dev, "-D")
}

// BaseName strips the version from a package identifier: the identifier is
// cut at its first '@' after position 0, so scoped names keep their scope.
func BaseName(pkg string) string {
	if len(pkg) > 1 {
		if i := strings.IndexByte(pkg[1:], '@'); i >= 0 {
			return pkg[:i+1]
		}
	}
	return pkg
}

// modulePaths returns node_modules/<base> for each distinct base name, in
// order of first appearance.
func modulePaths(packages []string) []string {
	seen := make(map[string]bool, len(packages))
	var out []string
	for _, pkg := range packages {
		base := BaseName(pkg)
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, "node_modules/"+base)
	}
	return out
}

func validatePackages(packages []string) error {
	if len(packages) == 0 {
		return errNoPackages
	}
	for _, pkg := range packages {
		if pkg == "" || strings.ContainsAny(pkg, " \t\r\n\"'") {
			return fmt.Errorf("invalid package identifier %q", pkg)
		}
	}
	return nil
}

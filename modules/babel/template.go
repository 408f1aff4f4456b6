// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package babel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/zclconf/go-cty/cty"
)

// Input defines the options of the babel template.
type Input struct {
	Presets    []string `opt:"presets"`
	Plugins    []string `opt:"plugins"`
	SourceMap  bool     `opt:"source_map"`
	BabelRC    bool     `opt:"babel_rc"`
	ConfigFile string   `opt:"config_file"`
}

var schema = options.Schema{
	options.StringList("presets", "Babel presets to apply."),
	options.StringList("plugins", "Babel plugins to apply."),
	options.Bool("source_map", true, "Emit source maps."),
	options.Bool("babel_rc", false, "Use a project .babelrc, creating a default one when missing."),
	options.String("config_file", "", "Babel config file, relative to the project root."),
	options.Optional(options.Bool("auto_install", false, "Install Babel automatically. Inherits the npm template's default.")),
}

// defaultConfig is written to .babelrc when it has to be created.
var defaultConfig = cty.EmptyObjectVal

// Template compiles each dependency with the Babel CLI.
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

	run := command.New("babel").
		Arg("$DEP", "-o", "$TARGET").
		ArgIf(in.SourceMap, "--source-maps").
		ArgIf(len(in.Plugins) > 0, "--plugins="+strings.Join(in.Plugins, ",")).
		ArgIf(len(in.Presets) > 0, "--presets="+strings.Join(in.Presets, ",")).
		ArgIf(!in.BabelRC, "--no-babelrc").
		ArgIf(in.ConfigFile != "", "--config-file="+relative(in.ConfigFile))

	primary := unit.Unit{
		Name:    spec.Name,
		Targets: spec.Targets,
		Deps:    spec.Deps,
		Env:     spec.Env,
		Run:     run.String(),
	}
	if ambient.Eject {
		return []template.Item{template.UnitItem(primary)}, nil
	}

	if in.BabelRC {
		primary.Deps = append(primary.Deps, ".babelrc")
	}
	for _, p := range slices.Concat(in.Presets, in.Plugins) {
		primary.Deps = append(primary.Deps, "node_modules/"+npm.BaseName(p))
	}
	primary.Deps = append(primary.Deps, "node_modules/@babel/core", "node_modules/@babel/cli")

	items := []template.Item{template.UnitItem(primary)}
	if in.BabelRC {
		items = append(items, template.UnitItem(unit.Unit{
			Targets:      []string{".babelrc"},
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run: command.Script(
				fmt.Sprintf(`echo "gridbuild: %s (babel_rc = true template option in use)"`, RCMarker),
				fmt.Sprintf("echo '%s' > .babelrc", options.FormatValue(defaultConfig)),
			),
		}))
	}

	var packages []string
	for _, p := range slices.Concat(in.Presets, in.Plugins) {
		packages = append(packages, pin(p))
	}
	packages = append(packages, "@babel/core@7", "@babel/cli@7")

	installOpts := options.Values{
		"packages": options.ListOf(packages...),
		"dev":      cty.True,
	}
	template.InheritOption(installOpts, opts, "auto_install")
	items = append(items, template.SpecItem(template.Spec{
		Template: npm.Name,
		Env:      spec.Env,
		Options:  installOpts,
	}))
	return items, nil
}

// pin adds the Babel 7 version to unversioned @babel scoped packages.
func pin(pkg string) string {
	if strings.HasPrefix(pkg, "@babel/") && npm.BaseName(pkg) == pkg {
		return pkg + "@7"
	}
	return pkg
}

func relative(path string) string {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || strings.HasPrefix(path, "/") {
		return path
	}
	return "./" + path
}

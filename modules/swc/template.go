// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package swc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/zclconf/go-cty/cty"
)

// Input defines the options of the swc template.
type Input struct {
	ConfigFile string            `opt:"config_file"`
	SwcRC      bool              `opt:"swc_rc"`
	SourceMaps bool              `opt:"source_maps"`
	Config     map[string]string `opt:"config"`
}

var schema = options.Schema{
	options.String("config_file", "", "SWC config file passed with --config-file."),
	options.Bool("swc_rc", false, "Use a project .swcrc, creating a default one when missing."),
	options.Bool("source_maps", true, "Emit source maps."),
	options.StringMap("config", "Dotted SWC config keys passed with -C, for example jsc.target = \"es2020\"."),
	options.Optional(options.Bool("auto_install", false, "Install SWC automatically. Inherits the npm template's default.")),
}

// DefaultConfig is the SWC configuration used when no .swcrc is in play.
var DefaultConfig = cty.ObjectVal(map[string]cty.Value{
	"jsc": cty.ObjectVal(map[string]cty.Value{
		"parser": cty.ObjectVal(map[string]cty.Value{
			"syntax":           cty.StringVal("typescript"),
			"importAssertions": cty.True,
			"topLevelAwait":    cty.True,
			"importMeta":       cty.True,
			"privateMethod":    cty.True,
			"dynamicImport":    cty.True,
		}),
	}),
})

// Template compiles each dependency with the SWC CLI.
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

	config := maps.Clone(in.Config)
	if config == nil {
		config = map[string]string{}
	}
	if !in.SwcRC {
		for k, v := range Flatten(DefaultConfig) {
			if _, ok := config[k]; !ok {
				config[k] = v
			}
		}
	}

	run := command.New("node").
		Arg("./node_modules/@swc/cli/bin/swc.js", "$DEP", "-o", "$TARGET").
		ArgIf(!in.SwcRC, "--no-swcrc").
		ArgIf(in.ConfigFile != "", "--config-file="+in.ConfigFile).
		ArgIf(in.SourceMaps, "--source-maps")
	for _, k := range slices.Sorted(maps.Keys(config)) {
		run.Arg("-C", k+"="+config[k])
	}

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

	if in.SwcRC {
		primary.Deps = append(primary.Deps, ".swcrc")
	}
	primary.Deps = append(primary.Deps, "node_modules/@swc/core", "node_modules/@swc/cli")
	items := []template.Item{template.UnitItem(primary)}

	if in.SwcRC {
		write, err := writeConfigLine(ambient)
		if err != nil {
			return nil, err
		}
		items = append(items, template.UnitItem(unit.Unit{
			Targets:      []string{".swcrc"},
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run: command.Script(
				fmt.Sprintf(`echo "gridbuild: %s (set swc_rc = false to skip)"`, RCMarker),
				write,
			),
		}))
	}

	installOpts := options.Values{
		"packages": options.ListOf("@swc/core@1", "@swc/cli@0.1"),
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

// writeConfigLine returns the shell line that writes DefaultConfig to
// $TARGET. PowerShell is used when the search path has Windows separators,
// since SWC rejects the byte order mark a plain redirect would add there.
func writeConfigLine(ambient template.Ambient) (string, error) {
	compact := options.FormatValue(DefaultConfig)
	if !ambient.IsWindows() {
		return fmt.Sprintf("echo '%s' > $TARGET", compact), nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(compact), "", "  "); err != nil {
		return "", fmt.Errorf("formatting default .swcrc: %w", err)
	}
	return fmt.Sprintf("$encoder = new-object System.Text.UTF8Encoding ; Set-Content -Value $encoder.Getbytes('%s') -Encoding Byte -Path $TARGET", pretty.String()), nil
}

// Flatten turns a nested object into dotted keys with string values.
func Flatten(v cty.Value) map[string]string {
	out := map[string]string{}
	flatten(out, "", v)
	return out
}

func flatten(out map[string]string, prefix string, v cty.Value) {
	if v.IsNull() || !v.IsKnown() {
		return
	}
	ty := v.Type()
	if ty.IsObjectType() || ty.IsMapType() {
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			flatten(out, prefix+k.AsString()+".", ev)
		}
		return
	}
	if prefix == "" {
		return
	}
	key := prefix[:len(prefix)-1]
	switch ty {
	case cty.String:
		out[key] = v.AsString()
	default:
		out[key] = options.FormatValue(v)
	}
}

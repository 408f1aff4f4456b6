// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package jspm

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/specialistvlad/gridbuild/internal/options"
	tpl "github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/zclconf/go-cty/cty"
)

// Input defines the options of the jspm template.
type Input struct {
	Env           []string          `opt:"env"`
	Resolutions map[string]string `opt:"resolutions"`
}

var schema = options.Schema{
	options.StringList("env", "Generator environment conditions.", "browser", "production", "module"),
	options.Optional(options.Bool("preload", false, "Inject modulepreload tags into HTML targets. Generator default when unset.")),
	options.Optional(options.Bool("integrity", false, "Add integrity attributes to HTML targets. Generator default when unset.")),
	options.Optional(options.Bool("whitespace", true, "Keep whitespace when injecting into HTML. Generator default when unset.")),
	options.Optional(options.Bool("es_module_shims", false, "Inject the ES Module Shims polyfill. Generator default when unset.")),
	options.StringMap("resolutions", "Package name to version or local path overrides."),
	options.Optional(options.Bool("auto_install", false, "Install the generator automatically. Inherits the npm template's default.")),
}

// htmlOptions maps template options onto htmlGenerate option names.
var htmlOptions = map[string]string{
	"preload":         "preload",
	"integrity":       "integrity",
	"whitespace":      "whitespace",
	"es_module_shims": "esModuleShims",
}

var generatorDeps = []string{"node_modules/@jspm/generator", "node_modules/mkdirp"}

var program = template.Must(template.New("jspm").Parse(`import { Generator } from '@jspm/generator';
import { readFile, writeFile } from 'fs/promises';
import { pathToFileURL } from 'url';
import mkdirp from 'mkdirp';
import { dirname } from 'path';

const generator = new Generator({
  ...{{.GeneratorOptions}},
  mapUrl: {{if .ImportMap}}import.meta.url{{else}}pathToFileURL(process.env.TARGET){{end}},
{{- if .LocalBase}}
  baseUrl: new URL('.', import.meta.url),
{{- end}}
});
{{if .ImportMap}}
const deps = process.env.DEPS.split(','){{range .SkipDeps}}.filter(dep => dep !== '{{.}}'){{end}};
await Promise.all(deps.map(dep => generator.traceInstall('./' + dep)));

mkdirp.sync(dirname(process.env.TARGET));
await writeFile(process.env.TARGET, JSON.stringify(generator.getMap(), null, 2));
{{else}}
const htmlSource = await readFile(process.env.DEP, 'utf-8');

mkdirp.sync(dirname(process.env.TARGET));
await writeFile(process.env.TARGET, await generator.htmlGenerate(htmlSource, {
  htmlUrl: pathToFileURL(process.env.TARGET),
{{- if .HTMLOptions}}
  ...{{.HTMLOptions}},
{{- end}}
}));
{{end}}`))

type programData struct {
	GeneratorOptions string
	HTMLOptions      string
	ImportMap        bool
	LocalBase        bool
	SkipDeps         []string
}

// Template generates an import map, or injects one into HTML, with the
// JSPM generator on every build.
type Template struct{}

// Name implements tpl.Template.
func (Template) Name() string { return Name }

// Schema implements tpl.Template.
func (Template) Schema() options.Schema { return schema }

// Expand implements tpl.Template.
func (Template) Expand(spec tpl.Spec, opts options.Values, ambient tpl.Ambient) ([]tpl.Item, error) {
	var in Input
	if err := options.Decode(opts, &in); err != nil {
		return nil, err
	}

	data := programData{ImportMap: strings.HasSuffix(MainTarget(spec.Targets), ".importmap")}
	generatorOpts := map[string]cty.Value{"env": opts["env"]}
	if len(in.Resolutions) > 0 {
		generatorOpts["resolutions"] = opts["resolutions"]
		if !data.ImportMap {
			data.LocalBase = hasLocalResolution(in.Resolutions)
		}
	}
	data.GeneratorOptions = options.FormatValue(cty.ObjectVal(generatorOpts))
	// Only options the user set are passed, so the generator's own
	// defaults apply to the rest.
	htmlOpts := make(map[string]cty.Value)
	for key, name := range htmlOptions {
		if v, ok := opts[key]; ok {
			htmlOpts[name] = v
		}
	}
	if len(htmlOpts) > 0 {
		data.HTMLOptions = options.FormatValue(cty.ObjectVal(htmlOpts))
	}
	if !ambient.Eject {
		data.SkipDeps = generatorDeps
	}

	var run strings.Builder
	if err := program.Execute(&run, data); err != nil {
		return nil, fmt.Errorf("rendering generator program: %w", err)
	}

	primary := unit.Unit{
		Name:         spec.Name,
		Targets:      spec.Targets,
		Deps:         spec.Deps,
		Env:          spec.Env,
		Engine:       unit.EngineNode,
		Invalidation: unit.InvalidationAlways,
		Run:          run.String(),
	}
	if ambient.Eject {
		return []tpl.Item{tpl.UnitItem(primary)}, nil
	}
	primary.Deps = append(primary.Deps, generatorDeps...)

	installOpts := options.Values{
		"packages": options.ListOf("@jspm/generator", "mkdirp"),
		"dev":      cty.True,
	}
	tpl.InheritOption(installOpts, opts, "auto_install")
	return []tpl.Item{
		tpl.UnitItem(primary),
		tpl.SpecItem(tpl.Spec{Template: npm.Name, Env: spec.Env, Options: installOpts}),
	}, nil
}

// MainTarget returns the first target containing the '#' interpolation
// marker, or the first target.
func MainTarget(targets []string) string {
	for _, t := range targets {
		if strings.Contains(t, "#") {
			return t
		}
	}
	if len(targets) > 0 {
		return targets[0]
	}
	return ""
}

func hasLocalResolution(resolutions map[string]string) bool {
	for _, v := range resolutions {
		if strings.HasPrefix(v, "./") || strings.HasPrefix(v, "../") {
			return true
		}
	}
	return false
}

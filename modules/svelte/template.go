// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package svelte

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/specialistvlad/gridbuild/internal/options"
	tpl "github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/zclconf/go-cty/cty"
)

// Input defines the options of the svelte template.
type Input struct {
	SvelteConfig string `opt:"svelte_config"`
}

var schema = options.Schema{
	options.String("svelte_config", "", "Module exporting the compiler options. The inline default is {css: false}."),
	options.Optional(options.Bool("auto_install", false, "Install Svelte automatically. Inherits the npm template's default.")),
}

var program = template.Must(template.New("svelte").Parse(`import { readFile, writeFile } from 'fs/promises';
import { compile } from 'svelte/compiler';
import mkdirp from 'mkdirp';
import { dirname } from 'path';

{{if .ConfigModule -}}
const config = { ...(await import({{.ConfigModule}})).default };
{{- else -}}
const config = { css: false };
{{- end}}
config.filename = process.env.DEP;

const source = await readFile(process.env.DEP, 'utf-8');
const result = compile(source, config);

mkdirp.sync(dirname(process.env.TARGET));
const cssFile = process.env.TARGET.replace(/\.js$/, '.css');
await Promise.all([
  writeFile(process.env.TARGET, result.js.code),
  writeFile(process.env.TARGET + '.map', JSON.stringify(result.js.map)),
  writeFile(cssFile, result.css.code),
  writeFile(cssFile + '.map', JSON.stringify(result.css.map)),
]);
`))

// Template compiles Svelte components with the Node engine.
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

	data := struct{ ConfigModule string }{}
	if in.SvelteConfig != "" {
		data.ConfigModule = strconv.Quote(in.SvelteConfig)
	}
	var run strings.Builder
	if err := program.Execute(&run, data); err != nil {
		return nil, err
	}

	primary := unit.Unit{
		Name:    spec.Name,
		Targets: spec.Targets,
		Deps:    spec.Deps,
		Env:     spec.Env,
		Engine:  unit.EngineNode,
		Run:     run.String(),
	}
	if ambient.Eject {
		return []tpl.Item{tpl.UnitItem(primary)}, nil
	}
	primary.Deps = append(primary.Deps, "node_modules/svelte", "node_modules/mkdirp")

	installOpts := options.Values{
		"packages": options.ListOf("svelte@3", "mkdirp"),
		"dev":      cty.True,
	}
	tpl.InheritOption(installOpts, opts, "auto_install")
	return []tpl.Item{
		tpl.UnitItem(primary),
		tpl.SpecItem(tpl.Spec{Template: npm.Name, Env: spec.Env, Options: installOpts}),
	}, nil
}

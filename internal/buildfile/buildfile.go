// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package buildfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/fsutil"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// Build is the aggregated content of one or more build files.
type Build struct {
	// Tasks are in file order, files in lexical order.
	Tasks []template.Spec
	// Globals holds template_options blocks keyed by template name.
	Globals map[string]options.Values
	Files   []string
}

// New returns an empty Build.
func New() *Build {
	return &Build{Globals: make(map[string]options.Values)}
}

// Task returns the task with the given name.
func (b *Build) Task(name string) (template.Spec, bool) {
	for _, t := range b.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return template.Spec{}, false
}

type hclBuildFile struct {
	Tasks           []*hclTask            `hcl:"task,block"`
	TemplateOptions []*hclTemplateOptions `hcl:"template_options,block"`
}

type hclTask struct {
	Name     string            `hcl:"name,label"`
	Template string            `hcl:"template"`
	Targets  []string          `hcl:"targets,optional"`
	Deps     []string          `hcl:"deps,optional"`
	Env      map[string]string `hcl:"env,optional"`
	Options  *hclOptions       `hcl:"options,block"`
}

type hclOptions struct {
	Body hcl.Body `hcl:",remain"`
}

type hclTemplateOptions struct {
	Template string   `hcl:"template,label"`
	Body     hcl.Body `hcl:",remain"`
}

// Load finds every .hcl file under path, which may also name a single file,
// and merges them into one Build. Task names must be unique across files, as
// must template_options labels.
func Load(ctx context.Context, path string) (*Build, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading build files.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find build files in %s: %w", path, err)
	}

	build := New()
	if len(files) == 0 {
		logger.Warn("No .hcl build files found in path, returning empty build.", "path", path)
		return build, nil
	}

	parser := hclparse.NewParser()
	seenTasks := make(map[string]string)
	seenGlobals := make(map[string]string)
	for _, file := range files {
		if err := build.loadFile(parser, file, seenTasks, seenGlobals); err != nil {
			return nil, err
		}
		build.Files = append(build.Files, file)
	}

	logger.Debug("Build files loaded.", "files", len(build.Files), "tasks", len(build.Tasks), "template_options", len(build.Globals))
	return build, nil
}

// Parse decodes a single build file held in memory. filename is used for
// diagnostics and recorded as each task's Source.
func Parse(filename string, src []byte) (*Build, error) {
	build := New()
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse build file %s: %w", filename, diags)
	}
	if err := build.decode(file, filename, make(map[string]string), make(map[string]string)); err != nil {
		return nil, err
	}
	build.Files = []string{filename}
	return build, nil
}

func (b *Build) loadFile(parser *hclparse.Parser, filename string, seenTasks, seenGlobals map[string]string) error {
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse build file %s: %w", filename, diags)
	}
	return b.decode(file, filename, seenTasks, seenGlobals)
}

func (b *Build) decode(file *hcl.File, filename string, seenTasks, seenGlobals map[string]string) error {
	var parsed hclBuildFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode build file %s: %w", filename, diags)
	}

	var diags hcl.Diagnostics
	for _, block := range parsed.TemplateOptions {
		if prev, ok := seenGlobals[block.Template]; ok {
			diags = append(diags, duplicate("template_options", block.Template, prev))
			continue
		}
		seenGlobals[block.Template] = filename

		values, valueDiags := literalAttributes(block.Body)
		diags = append(diags, valueDiags...)
		b.Globals[block.Template] = values
	}

	for _, task := range parsed.Tasks {
		if prev, ok := seenTasks[task.Name]; ok {
			diags = append(diags, duplicate("task", task.Name, prev))
			continue
		}
		seenTasks[task.Name] = filename

		spec := template.Spec{
			Name:     task.Name,
			Template: task.Template,
			Targets:  task.Targets,
			Deps:     task.Deps,
			Env:      task.Env,
			Source:   filename,
		}
		if task.Options != nil {
			values, valueDiags := literalAttributes(task.Options.Body)
			diags = append(diags, valueDiags...)
			spec.Options = values
		}
		b.Tasks = append(b.Tasks, spec)
	}

	if diags.HasErrors() {
		return fmt.Errorf("invalid build file %s: %w", filename, diags)
	}
	return nil
}

// literalAttributes evaluates every attribute of body without an evaluation
// context, so any variable or function reference is reported.
func literalAttributes(body hcl.Body) (options.Values, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	values := make(options.Values, len(attrs))
	for name, attr := range attrs {
		v, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		values[name] = v
	}
	return values, diags
}

func duplicate(kind, name, prevFile string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s %q", kind, name),
		Detail:   fmt.Sprintf("A %s named %q was already declared in %s.", kind, name, prevFile),
	}
}

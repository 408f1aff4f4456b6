// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/specialistvlad/gridbuild/internal/buildfile"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// LoadBuild loads every build file under the configured build path.
func (a *App) LoadBuild(ctx context.Context) (*buildfile.Build, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading build...", "build_path", a.config.BuildPath)

	build, err := buildfile.Load(ctx, a.config.BuildPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load build: %w", err)
	}

	logger.Info("Build loaded successfully.", "files", len(build.Files), "tasks_found", len(build.Tasks))
	return build, nil
}

// selectTasks returns the tasks whose name matches the configured filter.
func (a *App) selectTasks(build *buildfile.Build) ([]template.Spec, error) {
	if a.config.TaskFilter == "" {
		return build.Tasks, nil
	}
	g, err := glob.Compile(a.config.TaskFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid task filter %q: %w", a.config.TaskFilter, err)
	}

	var selected []template.Spec
	for _, task := range build.Tasks {
		if g.Match(task.Name) {
			selected = append(selected, task)
		}
	}
	a.logger.Debug("Tasks filtered.", "filter", a.config.TaskFilter, "selected", len(selected), "total", len(build.Tasks))
	return selected, nil
}

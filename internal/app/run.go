// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Plan is the expansion of every selected task of a build.
type Plan struct {
	Tasks []TaskPlan `json:"tasks" yaml:"tasks"`
}

// TaskPlan is the expansion of one task. Exactly one of Units and Error is
// set.
type TaskPlan struct {
	Task     string      `json:"task" yaml:"task"`
	Template string      `json:"template" yaml:"template"`
	Source   string      `json:"source,omitempty" yaml:"source,omitempty"`
	Units    []unit.Unit `json:"units,omitempty" yaml:"units,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// Err returns every task failure joined, or nil.
func (p *Plan) Err() error {
	var errs []error
	for _, t := range p.Tasks {
		if t.err != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", t.Task, t.err))
		}
	}
	return errors.Join(errs...)
}

// Units returns the units of every successful task in plan order.
func (p *Plan) Units() []unit.Unit {
	var units []unit.Unit
	for _, t := range p.Tasks {
		units = append(units, t.Units...)
	}
	return units
}

// Expand loads the build, selects tasks, and expands each of them. Units are
// numbered from 1 across the whole plan. A task that fails to expand is
// recorded in the plan and does not stop the others; a failure to load the
// build is returned as an error.
func (a *App) Expand(ctx context.Context) (*Plan, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Expand method started.")

	build, err := a.LoadBuild(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := a.selectTasks(build)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		logger.Warn("No tasks selected, expansion not required.", "filter", a.config.TaskFilter)
	}

	expander := template.NewExpander(a.registry, a.Ambient(), build.Globals)
	plan := &Plan{}
	next := unit.ID(1)
	for _, res := range expander.ExpandAll(ctx, tasks) {
		tp := TaskPlan{
			Task:     res.Spec.Label(),
			Template: res.Spec.Template,
			Source:   res.Spec.Source,
			err:      res.Err,
		}
		if res.Err != nil {
			tp.Error = res.Err.Error()
			logger.Warn("Task expansion failed.", "task", tp.Task, "error", res.Err)
		}
		for _, u := range res.Units {
			u.ID = next
			next++
			tp.Units = append(tp.Units, u)
		}
		plan.Tasks = append(plan.Tasks, tp)
	}

	logger.Info("Expansion finished.", "tasks", len(plan.Tasks), "units", next-1)
	return plan, nil
}

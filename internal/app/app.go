// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/specialistvlad/gridbuild/internal/dispatch"
	"github.com/specialistvlad/gridbuild/internal/template"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger     *slog.Logger
	config     *Config
	registry   *template.Registry
	dispatcher *dispatch.Dispatcher
}

// NewApp is the constructor for the main application. Logs are written to
// logW. When no modules are given, every core module is registered.
// Registering two templates under one name panics.
func NewApp(logW io.Writer, config *Config, modules ...template.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := template.NewRegistry(modules...)
	logger.Debug("All template modules registered.", "count", len(modules), "coalesced_categories", reg.Categories())

	return &App{
		logger:     logger,
		config:     config,
		registry:   reg,
		dispatcher: dispatch.New(reg),
	}
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Registry returns the application's template registry.
func (a *App) Registry() *template.Registry {
	return a.registry
}

// Ambient returns the configuration shared by every expansion.
func (a *App) Ambient() template.Ambient {
	return template.Ambient{
		SearchPath: a.config.SearchPath,
		Eject:      a.config.Eject,
		Env:        a.config.Env,
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gobwas/glob"
)

var (
	// LogLevels are the accepted values of Config.LogLevel.
	LogLevels = []string{"debug", "info", "warn", "error"}
	// LogFormats are the accepted values of Config.LogFormat.
	LogFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildPath string // .hcl file or directory

	LogFormat string
	LogLevel  string

	// Eject expands templates without any template managed units.
	Eject bool
	// SearchPath is the executable search path handed to templates.
	SearchPath string
	// Env is the inherited environment handed to templates.
	Env map[string]string
	// TaskFilter is a glob matched against task names. Empty selects all.
	TaskFilter string
}

// NewConfig fills defaults into cfg and validates it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildPath == "" {
		cfg.BuildPath = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	var errs []error
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of %v", cfg.LogLevel, LogLevels))
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of %v", cfg.LogFormat, LogFormats))
	}
	if cfg.TaskFilter != "" {
		if _, err := glob.Compile(cfg.TaskFilter); err != nil {
			errs = append(errs, fmt.Errorf("invalid task filter %q: %w", cfg.TaskFilter, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

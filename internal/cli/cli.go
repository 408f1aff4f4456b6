// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Execute runs the gridbuild command line with args. Results go to outW,
// logs and diagnostics to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(viper.New())
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree over v. Every flag is bound into v,
// which also reads GRIDBUILD_* environment variables.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "gridbuild",
		Short: "Expand build templates into execution units and coalesce their commands",
		Long: `gridbuild expands declarative build tasks into the execution units an
orchestrator runs, and decides per tick how batches of ready install commands
are merged, queued or shared so that each package manager runs one at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	// Flags are bound once the executing command is known, so commands can
	// share flag names such as --output.
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := v.BindEnv("search-path", "GRIDBUILD_SEARCH_PATH", "PATH"); err != nil {
			return fmt.Errorf("failed to bind search path: %w", err)
		}
		return v.BindPFlags(cmd.Flags())
	}
	root.PersistentFlags().String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().String("log-format", "text", "Log output format. Options: 'text' or 'json'.")

	v.SetEnvPrefix("GRIDBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newExpandCommand(v),
		newCoalesceCommand(v),
		newTemplatesCommand(v),
	)
	return root
}

// newConfig builds the application config from v. buildPath may be empty.
func newConfig(v *viper.Viper, buildPath string) (*app.Config, error) {
	if buildPath == "" {
		buildPath = v.GetString("build-path")
	}
	cfg, err := app.NewConfig(app.Config{
		BuildPath:  buildPath,
		LogLevel:   strings.ToLower(v.GetString("log-level")),
		LogFormat:  strings.ToLower(v.GetString("log-format")),
		Eject:      v.GetBool("eject"),
		SearchPath: v.GetString("search-path"),
		Env:        environ(),
		TaskFilter: v.GetString("task"),
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, val, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = val
		}
	}
	return env
}

// maxArgs is cobra.MaximumNArgs reporting a usage error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}

// IsUsage reports whether err is an ExitError for bad command line input.
func IsUsage(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Code == 2
}

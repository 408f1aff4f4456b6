// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_InvalidBuildFile(t *testing.T) {
	t.Parallel()

	// Missing closing brace.
	invalidHCL := `
		task "deps" {
			template = "npm"
	`
	filePath := filepath.Join(t.TempDir(), "build.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"expand", filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse build file")
}

func TestRun_Expand(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "build.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`
task "fmt" {
  template = "prettier"
}
`), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"expand", filePath, "--output", "yaml"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "run: prettier . --write")
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/testutil"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const build = `
task "deps" {
  template = "npm"
  options {
    packages = ["lit"]
  }
}

task "fmt" {
  template = "prettier"
  options {
    check = true
  }
}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestExpand_Text(t *testing.T) {
	t.Parallel()

	path := testutil.WriteBuildFile(t, build)
	out, _, err := execute(t, "expand", path)
	require.NoError(t, err)

	assert.Contains(t, out, "deps (npm)")
	assert.Contains(t, out, "   1  deps")
	assert.Contains(t, out, `echo "Some packages are missing. Please run npm install lit"`)
	assert.Contains(t, out, "fmt (prettier)")
	assert.Contains(t, out, "prettier . --check --write")
}

func TestExpand_JSON(t *testing.T) {
	t.Parallel()

	path := testutil.WriteBuildFile(t, build)
	out, _, err := execute(t, "expand", path, "--task", "deps", "-o", "json")
	require.NoError(t, err)

	var plan struct {
		Tasks []struct {
			Task  string      `json:"task"`
			Units []unit.Unit `json:"units"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "deps", plan.Tasks[0].Task)
	require.Len(t, plan.Tasks[0].Units, 1)
	assert.Equal(t, []string{"node_modules/lit"}, plan.Tasks[0].Units[0].Targets)
	assert.Equal(t, unit.InvalidationNotFound, plan.Tasks[0].Units[0].Invalidation)
}

func TestExpand_FailingTask(t *testing.T) {
	t.Parallel()

	path := testutil.WriteBuildFile(t, build+`
task "broken" {
  template = "npm"
  options {
    packages = ["lit"]
    save     = true
  }
}
`)
	out, logs, err := execute(t, "expand", path, "--log-level", "debug")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "1 of 3 tasks failed to expand", exitErr.Message)
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, `"save"`)
	assert.Contains(t, logs, "Task expansion failed.")
}

func TestExpand_LoadError(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "expand", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.False(t, IsUsage(err))
	assert.Contains(t, err.Error(), "failed to load build")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	path := testutil.WriteBuildFile(t, build)
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"expand", "--bogus"}, wantErr: "unknown flag: --bogus"},
		{name: "bad output", args: []string{"expand", path, "-o", "xml"}, wantErr: `invalid output "xml"`},
		{name: "bad log level", args: []string{"expand", path, "--log-level", "loud"}, wantErr: `invalid log level "loud"`},
		{name: "bad task glob", args: []string{"expand", path, "--task", "[x"}, wantErr: "invalid task filter"},
		{name: "too many paths", args: []string{"expand", "a", "b"}, wantErr: "accepts at most 1 arg(s)"},
		{name: "coalesce without file", args: []string{"coalesce"}, wantErr: "accepts 1 arg(s)"},
		{name: "unknown template", args: []string{"templates", "make"}, wantErr: `unknown template "make"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.True(t, IsUsage(err), "expected a usage error, got %T: %v", err, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

const batch = `
category: npm
batch:
  - {id: 1, run: npm init -y}
  - {id: 2, run: npm init -y}
  - {id: 3, run: npm install lit}
  - {id: 4, run: cargo build}
`

func TestCoalesce_YAML(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"tick.yaml": batch})
	out, _, err := execute(t, "coalesce", filepath.Join(dir, "tick.yaml"), "-o", "yaml")
	require.NoError(t, err)

	var got coalesce.Decision
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))

	want := coalesce.Decision{
		Queued: testutil.IDs(3),
		Runs: []coalesce.Run{
			{Run: "npm init -y", Engine: unit.EngineCmd, CoveredIDs: testutil.IDs(1)},
			{Run: "cargo build", Engine: unit.EngineCmd, CoveredIDs: testutil.IDs(4)},
		},
		Completions: map[unit.ID]unit.ID{2: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("coalesce output mismatch (-want +got):\n%s", diff)
	}
}

func TestCoalesce_Text(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"tick.yaml": batch})
	out, _, err := execute(t, "coalesce", filepath.Join(dir, "tick.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "run [1] npm init -y\nrun [4] cargo build\nqueued [3]\ncomplete 2 -> 1\n", out)
}

func TestCoalesce_BadFile(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"tick.yaml": "batch: []\n"})
	_, _, err := execute(t, "coalesce", filepath.Join(dir, "tick.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category must not be empty")
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "templates")
	require.NoError(t, err)
	for _, name := range []string{"babel", "cargo", "jspm", "npm", "prettier", "svelte", "swc"} {
		assert.Contains(t, out, name+"\n")
	}

	out, _, err = execute(t, "templates", "npm")
	require.NoError(t, err)
	assert.Contains(t, out, "OPTION")
	assert.Regexp(t, `packages\s+list of string\s+required`, out)
	assert.Regexp(t, `package_manager\s+string\s+"npm"`, out)
	assert.NotContains(t, out, "prettier")
}

func TestHelp(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "expand")
	assert.Contains(t, out, "coalesce")
}

// Environment variables are process wide, so this test is not parallel.
func TestExpand_Environment(t *testing.T) {
	path := testutil.WriteBuildFile(t, `
task "rg" {
  template = "cargo"
  options {
    bin     = "rg"
    install = "ripgrep"
  }
}
`)
	t.Setenv("GRIDBUILD_SEARCH_PATH", `C:\Windows;C:\Users\dev\.cargo\bin`)
	t.Setenv("GRIDBUILD_OUTPUT", "yaml")

	out, _, err := execute(t, "expand", path)
	require.NoError(t, err)
	assert.Contains(t, out, `C:\Users\dev\.cargo\bin\rg.exe`)
	assert.Contains(t, out, "tasks:")

	// An explicit flag wins over the environment.
	out, _, err = execute(t, "expand", path, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "rg (cargo)")
}

// PATH is process wide, so this test is not parallel.
func TestExpand_SearchPathFromPATH(t *testing.T) {
	path := testutil.WriteBuildFile(t, `
task "rg" {
  template = "cargo"
  options {
    bin     = "rg"
    install = "ripgrep"
  }
}
`)
	t.Setenv("GRIDBUILD_SEARCH_PATH", "")
	t.Setenv("PATH", "/usr/bin:/home/dev/.cargo/bin")

	out, _, err := execute(t, "expand", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"/home/dev/.cargo/bin/rg"`)
}

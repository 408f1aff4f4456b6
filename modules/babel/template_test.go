// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package babel

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/specialistvlad/gridbuild/internal/testutil"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/specialistvlad/gridbuild/modules/npm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newRegistry() *template.Registry {
	return template.NewRegistry(&Module{}, &npm.Module{})
}

func expand(t *testing.T, ambient template.Ambient, opts options.Values) ([]unit.Unit, error) {
	t.Helper()
	e := template.NewExpander(newRegistry(), ambient, nil)
	return e.Expand(context.Background(), template.Spec{
		Name:     "build",
		Template: Name,
		Targets:  []string{"lib/#.js"},
		Deps:     []string{"src/#.js"},
		Options:  opts,
	})
}

func TestTemplate_Defaults(t *testing.T) {
	t.Parallel()

	got, err := expand(t, template.Ambient{}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := unit.Unit{
		Name:     "build",
		Targets:  []string{"lib/#.js"},
		Deps:     []string{"src/#.js", "node_modules/@babel/core", "node_modules/@babel/cli"},
		Run:      "babel $DEP -o $TARGET --source-maps --no-babelrc",
		Category: Name,
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("primary unit mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, npm.Name, got[1].Category)
	assert.Equal(t, `echo "Some packages are missing. Please run npm install @babel/core@7 @babel/cli@7 -D"`, got[1].Run)
}

func TestTemplate_BabelRC(t *testing.T) {
	t.Parallel()

	got, err := expand(t, template.Ambient{}, options.Values{
		"presets":     testutil.List("@babel/preset-env"),
		"plugins":     testutil.List("@babel/plugin-syntax-jsx", "babel-plugin-macros@3"),
		"babel_rc":    cty.True,
		"source_map":  cty.False,
		"config_file": cty.StringVal("babel.config.json"),
	})
	require.NoError(t, err)

	want := []unit.Unit{
		{
			Name:    "build",
			Targets: []string{"lib/#.js"},
			Deps: []string{
				"src/#.js",
				".babelrc",
				"node_modules/@babel/preset-env",
				"node_modules/@babel/plugin-syntax-jsx",
				"node_modules/babel-plugin-macros",
				"node_modules/@babel/core",
				"node_modules/@babel/cli",
			},
			Run:      "babel $DEP -o $TARGET --plugins=@babel/plugin-syntax-jsx,babel-plugin-macros@3 --presets=@babel/preset-env --config-file=./babel.config.json",
			Category: Name,
		},
		{
			Targets:      []string{".babelrc"},
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run:          "echo \"gridbuild: Creating .babelrc (babel_rc = true template option in use)\"\necho '{}' > .babelrc",
			Category:     Name,
		},
		{
			Targets: []string{
				"node_modules/@babel/preset-env",
				"node_modules/@babel/plugin-syntax-jsx",
				"node_modules/babel-plugin-macros",
				"node_modules/@babel/core",
				"node_modules/@babel/cli",
			},
			Invalidation: unit.InvalidationNotFound,
			Display:      unit.DisplayNone,
			Run:          `echo "Some packages are missing. Please run npm install @babel/preset-env@7 @babel/plugin-syntax-jsx@7 babel-plugin-macros@3 @babel/core@7 @babel/cli@7 -D"`,
			Category:     npm.Name,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate_AutoInstallReachesNestedInstall(t *testing.T) {
	t.Parallel()

	got, err := expand(t, template.Ambient{}, options.Values{"auto_install": cty.True})
	require.NoError(t, err)

	// primary, npm aggregator, two installs, npm:init
	require.Len(t, got, 5)
	assert.True(t, got[1].Serial)
	assert.Equal(t, npm.InitName, got[4].Name)
}

func TestTemplate_GlobalNpmAutoInstall(t *testing.T) {
	t.Parallel()

	globals := map[string]options.Values{npm.Name: {"auto_install": cty.True}}
	e := template.NewExpander(newRegistry(), template.Ambient{}, globals)
	got, err := e.Expand(context.Background(), template.Spec{Template: Name})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestTemplate_Eject(t *testing.T) {
	t.Parallel()

	got, err := expand(t, template.Ambient{Eject: true}, options.Values{
		"presets":      testutil.List("@babel/preset-env"),
		"babel_rc":     cty.True,
		"auto_install": cty.True,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"src/#.js"}, got[0].Deps)
	assert.Equal(t, "babel $DEP -o $TARGET --source-maps --presets=@babel/preset-env", got[0].Run)
}

func TestTemplate_UnknownOption(t *testing.T) {
	t.Parallel()

	_, err := expand(t, template.Ambient{}, options.Values{"babelrc": cty.True})
	testutil.RequireValidationError(t, err, Name, "babelrc")
}

func TestCoalescer_BabelRCCreatedOnce(t *testing.T) {
	t.Parallel()

	var batch []coalesce.Request
	for i, name := range []string{"a", "b"} {
		units, err := template.NewExpander(newRegistry(), template.Ambient{}, nil).Expand(context.Background(), template.Spec{
			Name:     name,
			Template: Name,
			Options:  options.Values{"babel_rc": cty.True},
		})
		require.NoError(t, err)
		rc := units[1]
		require.Equal(t, []string{".babelrc"}, rc.Targets)
		rc.ID = unit.ID(i + 1)
		batch = append(batch, coalesce.FromUnit(rc))
	}

	c, ok := newRegistry().Coalescer(Name)
	require.True(t, ok)
	got := c.Coalesce(batch, nil)

	require.NoError(t, got.Verify(batch))
	require.Len(t, got.Runs, 1)
	assert.Equal(t, testutil.IDs(1), got.Runs[0].CoveredIDs)
	assert.Equal(t, map[unit.ID]unit.ID{2: 1}, got.Completions)
}

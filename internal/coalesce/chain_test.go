// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func npmChain() Chain {
	g := NpmInstallGrammar("npm", "pnpm")
	return Chain{
		Singleton{Classify: RunIs("npm", "init", "-y"), RunningEquivalent: InFamily(g, "npm")},
		Singleton{Classify: RunIs("pnpm", "init", "-y"), RunningEquivalent: InFamily(g, "pnpm")},
		Mutation{Grammar: g},
	}
}

func req(id int, run string) Request {
	return Request{ID: unit.ID(id), Run: run, Engine: unit.EngineCmd}
}

func reqEnv(id int, run string, env map[string]string) Request {
	r := req(id, run)
	r.Env = env
	return r
}

func ids(v ...int) []unit.ID {
	out := make([]unit.ID, len(v))
	for i, id := range v {
		out[i] = unit.ID(id)
	}
	return out
}

func cmdRun(run string, covered ...int) Run {
	return Run{Run: run, Engine: unit.EngineCmd, CoveredIDs: ids(covered...)}
}

func TestChain_Npm(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		batch   []Request
		running []Request
		want    Decision
	}{
		{
			name:  "independent installs merge into one run",
			batch: []Request{req(1, "npm install left-pad"), req(2, "npm install right-pad")},
			want: Decision{
				Runs: []Run{cmdRun("npm install left-pad right-pad", 1, 2)},
			},
		},
		{
			name:    "install queues behind a running install",
			batch:   []Request{req(3, "npm install -D eslint")},
			running: []Request{req(9, "npm install left-pad")},
			want:    Decision{Queued: ids(3)},
		},
		{
			name:    "init completes onto any running npm unit",
			batch:   []Request{req(4, "npm init -y")},
			running: []Request{req(9, "npm install left-pad")},
			want:    Decision{Completions: map[unit.ID]unit.ID{4: 9}},
		},
		{
			name:  "duplicate subjects are merged once",
			batch: []Request{req(1, "npm install left-pad"), req(2, "npm install left-pad")},
			want: Decision{
				Runs: []Run{cmdRun("npm install left-pad", 1, 2)},
			},
		},
		{
			name: "first mode wins and other modes queue",
			batch: []Request{
				req(1, "npm install a"),
				req(2, "npm install -D b"),
				req(3, "npm install c a"),
			},
			want: Decision{
				Queued: ids(2),
				Runs:   []Run{cmdRun("npm install a c", 1, 3)},
			},
		},
		{
			name:  "save-dev is the same mode as -D",
			batch: []Request{req(1, "npm install -D a"), req(2, "npm install --save-dev b")},
			want: Decision{
				Runs: []Run{cmdRun("npm install -D a b", 1, 2)},
			},
		},
		{
			name:  "same tick init starts alone and installs wait for it",
			batch: []Request{req(1, "npm install a"), req(2, "npm init -y"), req(3, "npm init -y")},
			want: Decision{
				Queued:      ids(1),
				Runs:        []Run{cmdRun("npm init -y", 2)},
				Completions: map[unit.ID]unit.ID{3: 2},
			},
		},
		{
			name:    "a running init blocks installs",
			batch:   []Request{req(1, "npm install a")},
			running: []Request{req(9, "npm init -y")},
			want:    Decision{Queued: ids(1)},
		},
		{
			name:    "another family running does not block npm",
			batch:   []Request{req(1, "npm install a"), req(2, "pnpm install b")},
			running: []Request{req(9, "pnpm install c")},
			want: Decision{
				Queued: ids(2),
				Runs:   []Run{cmdRun("npm install a", 1)},
			},
		},
		{
			name:  "families merge separately",
			batch: []Request{req(1, "npm install a"), req(2, "pnpm install b"), req(3, "npm install c")},
			want: Decision{
				Runs: []Run{cmdRun("npm install a c", 1, 3), cmdRun("pnpm install b", 2)},
			},
		},
		{
			name: "unparseable requests run standalone",
			batch: []Request{
				req(1, `npm install "left-pad"`),
				req(2, "npm install"),
				req(3, "npm install -g typescript"),
				req(4, "npm install -D -E eslint"),
				req(5, "npm run build"),
				{ID: 6, Run: "npm install a", Engine: unit.EngineNode},
				req(7, "npm install a\nrm -rf node_modules"),
				req(8, "npm install a && echo done"),
			},
			running: []Request{req(9, "npm install left-pad")},
			want: Decision{
				Runs: []Run{
					cmdRun(`npm install "left-pad"`, 1),
					cmdRun("npm install", 2),
					cmdRun("npm install -g typescript", 3),
					cmdRun("npm install -D -E eslint", 4),
					cmdRun("npm run build", 5),
					{Run: "npm install a", Engine: unit.EngineNode, CoveredIDs: ids(6)},
					cmdRun("npm install a\nrm -rf node_modules", 7),
					cmdRun("npm install a && echo done", 8),
				},
			},
		},
		{
			name:  "unrelated units run standalone next to a merged install",
			batch: []Request{req(1, "echo hi"), req(2, "npm install a"), req(3, "npm install b")},
			want: Decision{
				Runs: []Run{cmdRun("npm install a b", 2, 3), cmdRun("echo hi", 1)},
			},
		},
		{
			name: "empty batch",
			want: Decision{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := npmChain().Coalesce(tc.batch, tc.running)
			require.NoError(t, got.Verify(tc.batch))
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Coalesce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChain_MergedEnvFirstWriterWins(t *testing.T) {
	t.Parallel()

	batch := []Request{
		reqEnv(1, "npm install a", map[string]string{"NODE_ENV": "production"}),
		reqEnv(2, "npm install b", map[string]string{"NODE_ENV": "development", "CI": "1"}),
	}
	got := npmChain().Coalesce(batch, nil)

	require.Len(t, got.Runs, 1)
	assert.Equal(t, map[string]string{"NODE_ENV": "production", "CI": "1"}, got.Runs[0].Env)
	assert.Equal(t, map[string]string{"NODE_ENV": "development", "CI": "1"}, batch[1].Env, "input env must not be modified")
}

func TestChain_EmptyChainRunsEverythingStandalone(t *testing.T) {
	t.Parallel()

	batch := []Request{req(1, "npm install a"), reqEnv(2, "npm install b", map[string]string{"A": "1"})}
	got := Chain{}.Coalesce(batch, nil)

	want := Standalone(batch)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Coalesce() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got.Runs, 2)
}

func TestSingleton_Marker(t *testing.T) {
	t.Parallel()

	const marker = "Creating .babelrc"
	chain := Chain{Singleton{Classify: RunContains(marker)}}

	t.Run("aliases onto the first creator", func(t *testing.T) {
		t.Parallel()
		batch := []Request{req(1, "echo Creating .babelrc"), req(2, "babel src -o lib"), req(3, "echo Creating .babelrc")}
		got := chain.Coalesce(batch, nil)

		require.NoError(t, got.Verify(batch))
		want := Decision{
			Runs:        []Run{cmdRun("echo Creating .babelrc", 1), cmdRun("babel src -o lib", 2)},
			Completions: map[unit.ID]unit.ID{3: 1},
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Coalesce() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("completes onto a running creator", func(t *testing.T) {
		t.Parallel()
		batch := []Request{req(1, "echo Creating .babelrc"), req(2, "echo Creating .babelrc")}
		got := chain.Coalesce(batch, []Request{req(7, "echo Creating .babelrc")})

		require.NoError(t, got.Verify(batch))
		assert.Empty(t, got.Runs)
		assert.Equal(t, map[unit.ID]unit.ID{1: 7, 2: 1}, got.Completions)
	})

	t.Run("other engines are not classified", func(t *testing.T) {
		t.Parallel()
		batch := []Request{
			{ID: 1, Run: "echo Creating .babelrc", Engine: unit.EngineDeno},
			{ID: 2, Run: "echo Creating .babelrc", Engine: unit.EngineDeno},
		}
		got := chain.Coalesce(batch, nil)
		assert.Len(t, got.Runs, 2)
		assert.Empty(t, got.Completions)
	})
}

// TestChain_Partition checks the partition and single-flight properties over
// randomly generated batches.
func TestChain_Partition(t *testing.T) {
	t.Parallel()

	pool := []string{
		"npm install a",
		"npm install b a",
		"npm install -D c",
		"npm install --save-dev d",
		"npm install",
		"npm init -y",
		"npm run build",
		"pnpm install e",
		"pnpm init -y",
		"echo Creating .babelrc",
		`npm install "x"`,
		"cargo install ripgrep",
	}
	rng := rand.New(rand.NewPCG(7, 11))
	chain := append(npmChain(), Singleton{Classify: RunContains("Creating .babelrc")})

	for i := range 200 {
		var batch, running []Request
		for id := range rng.IntN(8) {
			batch = append(batch, req(id+1, pool[rng.IntN(len(pool))]))
		}
		for id := range rng.IntN(3) {
			running = append(running, req(100+id, pool[rng.IntN(len(pool))]))
		}

		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			got := chain.Coalesce(batch, running)
			require.NoError(t, got.Verify(batch))
			assert.ElementsMatch(t, idsOf(batch), got.IDs())

			g := NpmInstallGrammar("npm", "pnpm")
			busy := map[string]bool{}
			for _, r := range running {
				if family, ok := g.Family(r); ok {
					busy[family] = true
				}
			}
			for _, run := range got.Runs {
				if p, ok := g.Parse(Request{Run: run.Run, Engine: run.Engine}); ok {
					assert.False(t, busy[p.Family], "started %q while %s is running", run.Run, p.Family)
				}
				if run.Run == "npm init -y" {
					assert.False(t, busy["npm"], "started npm init while npm is running")
				}
			}
		})
	}
}

func idsOf(batch []Request) []unit.ID {
	out := make([]unit.ID, len(batch))
	for i, r := range batch {
		out[i] = r.ID
	}
	return out
}

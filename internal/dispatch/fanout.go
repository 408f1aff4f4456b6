// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dispatch

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// ResolveCompletion follows the completion chain starting at id and returns
// the id whose execution id ultimately waits on. ok is false when id is not a
// completion. A chain that loops stops at the last id before the loop.
func ResolveCompletion(d coalesce.Decision, id unit.ID) (target unit.ID, ok bool) {
	seen := map[unit.ID]bool{id: true}
	target = id
	for {
		next, found := d.Completions[target]
		if !found || seen[next] {
			return target, target != id
		}
		seen[next] = true
		target = next
	}
}

// Dependents returns every completion id whose chain resolves to id, sorted.
func Dependents(d coalesce.Decision, id unit.ID) []unit.ID {
	var out []unit.ID
	for _, key := range slices.Sorted(maps.Keys(d.Completions)) {
		if target, ok := ResolveCompletion(d, key); ok && target == id {
			out = append(out, key)
		}
	}
	return out
}

// Fanout assigns the outcome of Runs[runIndex] to every id the run covers and
// to every completion that resolves to one of them. All of them get the same
// outcome.
func Fanout[O any](d coalesce.Decision, runIndex int, outcome O) (map[unit.ID]O, error) {
	if runIndex < 0 || runIndex >= len(d.Runs) {
		return nil, fmt.Errorf("run index %d out of range, decision has %d runs", runIndex, len(d.Runs))
	}
	out := make(map[unit.ID]O)
	for _, id := range d.Runs[runIndex].CoveredIDs {
		out[id] = outcome
		for _, dep := range Dependents(d, id) {
			out[dep] = outcome
		}
	}
	return out, nil
}

// FanoutRunning assigns the outcome of a unit that was already running when
// the decision was made to every completion that resolves to it.
func FanoutRunning[O any](d coalesce.Decision, runningID unit.ID, outcome O) map[unit.ID]O {
	out := make(map[unit.ID]O)
	for _, dep := range Dependents(d, runningID) {
		out[dep] = outcome
	}
	return out
}

// RunFor returns the index of the run covering id.
func RunFor(d coalesce.Decision, id unit.ID) (int, bool) {
	for i, run := range d.Runs {
		if slices.Contains(run.CoveredIDs, id) {
			return i, true
		}
	}
	return 0, false
}

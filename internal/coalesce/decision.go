// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/unit"
)

// ErrPartition is wrapped by every error returned from Decision.Verify.
var ErrPartition = errors.New("decision does not partition the batch")

// Run is one external invocation. Its outcome belongs to every covered id.
type Run struct {
	Run        string            `json:"run" yaml:"run"`
	Env        map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Engine     unit.Engine       `json:"engine" yaml:"engine"`
	CoveredIDs []unit.ID         `json:"covered_ids" yaml:"covered_ids"`
}

// Decision is a coalescer's answer for one tick.
type Decision struct {
	// Queued ids are deferred to a later tick.
	Queued []unit.ID `json:"queued" yaml:"queued"`
	// Runs are the invocations to start now.
	Runs []Run `json:"runs" yaml:"runs"`
	// Completions maps an id to the id whose outcome it shares. The target is
	// either covered by one of Runs or already running.
	Completions map[unit.ID]unit.ID `json:"completions" yaml:"completions"`
}

// Standalone returns the decision that runs every request of the batch on
// its own.
func Standalone(batch []Request) Decision {
	d := Decision{Completions: map[unit.ID]unit.ID{}}
	for _, r := range batch {
		d.Runs = append(d.Runs, standaloneRun(r))
	}
	return d
}

func standaloneRun(r Request) Run {
	run := Run{Run: r.Run, Engine: r.EngineOrDefault(), CoveredIDs: []unit.ID{r.ID}}
	if r.Env != nil {
		run.Env = maps.Clone(r.Env)
	}
	return run
}

// Verify checks that the decision places every id of batch in exactly one of
// Queued, a single Run's CoveredIDs, or the keys of Completions, and that it
// mentions no id outside the batch. All violations are reported together.
func (d Decision) Verify(batch []Request) error {
	var errs []error
	want := make(map[unit.ID]bool, len(batch))
	for _, r := range batch {
		if want[r.ID] {
			errs = append(errs, fmt.Errorf("%w: id %d appears more than once in the batch", ErrPartition, r.ID))
		}
		want[r.ID] = true
	}

	placed := make(map[unit.ID]string, len(batch))
	place := func(id unit.ID, where string) {
		if !want[id] {
			errs = append(errs, fmt.Errorf("%w: %s mentions id %d which is not in the batch", ErrPartition, where, id))
			return
		}
		if prev, ok := placed[id]; ok {
			errs = append(errs, fmt.Errorf("%w: id %d is in both %s and %s", ErrPartition, id, prev, where))
			return
		}
		placed[id] = where
	}

	for _, id := range d.Queued {
		place(id, "queued")
	}
	for i, run := range d.Runs {
		for _, id := range run.CoveredIDs {
			place(id, fmt.Sprintf("run %d", i))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(d.Completions)) {
		if d.Completions[id] == id {
			errs = append(errs, fmt.Errorf("%w: id %d completes itself", ErrPartition, id))
		}
		place(id, "completions")
	}

	for _, id := range slices.Sorted(maps.Keys(d.Completions)) {
		if d.completionLoops(id) {
			errs = append(errs, fmt.Errorf("%w: completion chain from id %d loops", ErrPartition, id))
		}
	}

	for _, r := range batch {
		if _, ok := placed[r.ID]; !ok {
			errs = append(errs, fmt.Errorf("%w: id %d is missing from the decision", ErrPartition, r.ID))
			placed[r.ID] = "reported"
		}
	}
	return errors.Join(errs...)
}

func (d Decision) completionLoops(id unit.ID) bool {
	seen := map[unit.ID]bool{id: true}
	for {
		next, ok := d.Completions[id]
		if !ok {
			return false
		}
		if seen[next] {
			return next != id || len(seen) > 1
		}
		seen[next] = true
		id = next
	}
}

// IDs returns every id the decision places, in the order queued, runs,
// completions (sorted).
func (d Decision) IDs() []unit.ID {
	var ids []unit.ID
	ids = append(ids, d.Queued...)
	for _, run := range d.Runs {
		ids = append(ids, run.CoveredIDs...)
	}
	ids = append(ids, slices.Sorted(maps.Keys(d.Completions))...)
	return ids
}

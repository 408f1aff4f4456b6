// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"slices"

	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Rule claims some of a tick's pending requests. The set of rules is closed:
// Singleton and Mutation.
type Rule interface {
	apply(t *tick)
}

// Chain is a Coalescer that applies its rules in order. Each rule only sees
// requests no earlier rule claimed. Requests left over at the end run
// standalone.
type Chain []Rule

// Coalesce implements Coalescer.
func (c Chain) Coalesce(batch, running []Request) Decision {
	t := newTick(batch, running)
	for _, rule := range c {
		rule.apply(t)
	}
	for _, r := range t.pending() {
		t.emit(standaloneRun(r))
	}
	return t.decision
}

// tick is the working state of one Coalesce call.
type tick struct {
	batch   []Request
	running []Request
	claimed map[unit.ID]bool

	decision Decision
}

func newTick(batch, running []Request) *tick {
	return &tick{
		batch:    batch,
		running:  slices.Clone(running),
		claimed:  make(map[unit.ID]bool, len(batch)),
		decision: Decision{Completions: map[unit.ID]unit.ID{}},
	}
}

// pending returns the unclaimed requests in batch order.
func (t *tick) pending() []Request {
	out := make([]Request, 0, len(t.batch))
	for _, r := range t.batch {
		if !t.claimed[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func (t *tick) queue(id unit.ID) {
	t.claimed[id] = true
	t.decision.Queued = append(t.decision.Queued, id)
}

func (t *tick) complete(id, by unit.ID) {
	t.claimed[id] = true
	t.decision.Completions[id] = by
}

// emit adds a run and claims every id it covers.
func (t *tick) emit(run Run) {
	for _, id := range run.CoveredIDs {
		t.claimed[id] = true
	}
	t.decision.Runs = append(t.decision.Runs, run)
}

// start emits a standalone run for r and treats r as running for the rest of
// the tick, so later rules see its family as busy.
func (t *tick) start(r Request) {
	t.emit(standaloneRun(r))
	t.running = append(t.running, r)
}

func (t *tick) findRunning(match func(Request) bool) (Request, bool) {
	for _, r := range t.running {
		if match(r) {
			return r, true
		}
	}
	return Request{}, false
}

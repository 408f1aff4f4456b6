// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dispatch

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/ctxlog"
)

// Source provides the coalescer registered for a category.
type Source interface {
	Coalescer(category string) (coalesce.Coalescer, bool)
}

// Set is a fixed category to coalescer mapping.
type Set map[string]coalesce.Coalescer

// Coalescer implements Source.
func (s Set) Coalescer(category string) (coalesce.Coalescer, bool) {
	c, ok := s[category]
	return c, ok
}

// Dispatcher consults category coalescers once per tick.
type Dispatcher struct {
	source Source
}

// New creates a dispatcher over the given coalescer source.
func New(source Source) *Dispatcher {
	return &Dispatcher{source: source}
}

// Tick returns the decision for one category's ready batch. A category with
// no coalescer runs every unit standalone. A coalescer whose decision fails
// verification, or that panics, is ignored for this tick and the batch runs
// standalone.
func (d *Dispatcher) Tick(ctx context.Context, category string, batch, running []coalesce.Request) coalesce.Decision {
	logger := ctxlog.FromContext(ctx).With("category", category)

	c, ok := d.source.Coalescer(category)
	if !ok {
		logger.Debug("No coalescer for category, running batch standalone.", "size", len(batch))
		return coalesce.Standalone(batch)
	}

	decision, err := safeCoalesce(c, batch, running)
	if err == nil {
		err = decision.Verify(batch)
	}
	if err != nil {
		logger.Warn("Discarding coalescer decision, running batch standalone.", "size", len(batch), "error", err)
		return coalesce.Standalone(batch)
	}

	logger.Debug("Coalesced batch.",
		"size", len(batch),
		"running", len(running),
		"queued", len(decision.Queued),
		"runs", len(decision.Runs),
		"completions", len(decision.Completions),
	)
	return decision
}

func safeCoalesce(c coalesce.Coalescer, batch, running []coalesce.Request) (decision coalesce.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("coalescer panicked: %v", r)
		}
	}()
	return c.Coalesce(batch, running), nil
}

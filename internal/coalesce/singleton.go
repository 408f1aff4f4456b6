// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

// Singleton aliases a one-time bootstrap action so it executes at most once.
//
// The first pending request accepted by Classify survives. It completes onto
// a running request accepted by RunningEquivalent when there is one, and is
// started otherwise. Every later classified request completes onto the
// survivor.
type Singleton struct {
	Classify func(Request) bool
	// RunningEquivalent defaults to Classify when nil.
	RunningEquivalent func(Request) bool
}

func (s Singleton) apply(t *tick) {
	if s.Classify == nil {
		return
	}
	equivalent := s.RunningEquivalent
	if equivalent == nil {
		equivalent = s.Classify
	}

	var survivor *Request
	for _, r := range t.pending() {
		if !s.Classify(r) {
			continue
		}
		if survivor != nil {
			t.complete(r.ID, survivor.ID)
			continue
		}
		survivor = &r
		if running, ok := t.findRunning(equivalent); ok {
			t.complete(r.ID, running.ID)
			continue
		}
		t.start(r)
	}
}

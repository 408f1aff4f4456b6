// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"maps"

	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Request is the view of a unit the coalescer works on.
type Request struct {
	ID     unit.ID           `json:"id" yaml:"id"`
	Run    string            `json:"run" yaml:"run"`
	Engine unit.Engine       `json:"engine,omitempty" yaml:"engine,omitempty"`
	Env    map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// FromUnit builds the request view of a unit.
func FromUnit(u unit.Unit) Request {
	r := Request{ID: u.ID, Run: u.Run, Engine: u.Engine}
	if u.Env != nil {
		r.Env = maps.Clone(u.Env)
	}
	return r
}

// EngineOrDefault returns the request's engine, treating an empty engine as cmd.
func (r Request) EngineOrDefault() unit.Engine {
	if r.Engine == "" {
		return unit.EngineCmd
	}
	return r.Engine
}

// Coalescer decides how one tick's batch of a category is executed.
// Implementations must not retain batch or running.
type Coalescer interface {
	Coalesce(batch, running []Request) Decision
}

// CoalescerFunc adapts a plain function to the Coalescer interface.
type CoalescerFunc func(batch, running []Request) Decision

// Coalesce calls f(batch, running).
func (f CoalescerFunc) Coalesce(batch, running []Request) Decision {
	return f(batch, running)
}

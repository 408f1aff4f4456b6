// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package unit

import (
	"fmt"
	"maps"
	"slices"
)

// ID identifies a unit once the orchestrator owns it.
type ID int

// Engine selects the runtime that interprets a unit's Run text.
type Engine string

const (
	// EngineCmd runs Run through the system shell.
	EngineCmd Engine = "cmd"
	// EngineNode runs Run as an ES module program under Node.js.
	EngineNode Engine = "node"
	// EngineDeno runs Run as a program under Deno.
	EngineDeno Engine = "deno"
)

// Invalidation is the staleness policy the orchestrator applies to a unit.
type Invalidation string

const (
	// InvalidationDefault leaves the choice to the orchestrator (mtime based).
	InvalidationDefault Invalidation = ""
	// InvalidationAlways reruns the unit whenever it is reached.
	InvalidationAlways Invalidation = "always"
	// InvalidationNotFound runs the unit only when a target is missing.
	InvalidationNotFound Invalidation = "not-found"
	// InvalidationContentHash reruns the unit when a dependency's content changes.
	InvalidationContentHash Invalidation = "content-hash"
	// InvalidationMtime reruns the unit when a dependency is newer than a target.
	InvalidationMtime Invalidation = "mtime"
)

// Display controls how much the orchestrator reports about a unit.
type Display string

const (
	DisplayDefault    Display = ""
	DisplayInitStatus Display = "init-status"
	DisplayStatusOnly Display = "status-only"
	DisplayInitOnly   Display = "init-only"
	DisplayDot        Display = "dot"
	DisplayNone       Display = "none"
)

// Unit is a single execution unit produced by template expansion.
type Unit struct {
	ID           ID                `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Targets      []string          `json:"targets,omitempty" yaml:"targets,omitempty"`
	Deps         []string          `json:"deps,omitempty" yaml:"deps,omitempty"`
	Env          map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Engine       Engine            `json:"engine,omitempty" yaml:"engine,omitempty"`
	Run          string            `json:"run,omitempty" yaml:"run,omitempty"`
	Invalidation Invalidation      `json:"invalidation,omitempty" yaml:"invalidation,omitempty"`
	Display      Display           `json:"display,omitempty" yaml:"display,omitempty"`
	Serial       bool              `json:"serial,omitempty" yaml:"serial,omitempty"`

	// Category selects the coalescer that batches this unit. Expansion sets
	// it to the name of the template that produced the unit.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// EngineOrDefault returns the unit's engine, treating an empty engine as cmd.
func (u Unit) EngineOrDefault() Engine {
	if u.Engine == "" {
		return EngineCmd
	}
	return u.Engine
}

// Label returns a short human readable handle for the unit, used in logs.
func (u Unit) Label() string {
	switch {
	case u.Name != "":
		return u.Name
	case len(u.Targets) > 0:
		return u.Targets[0]
	case u.Run != "":
		return fmt.Sprintf("run(%.32q)", u.Run)
	default:
		return "<anonymous>"
	}
}

// Clone returns a deep copy of the unit so callers can modify slices and the
// env map without aliasing the original.
func (u Unit) Clone() Unit {
	c := u
	c.Targets = slices.Clone(u.Targets)
	c.Deps = slices.Clone(u.Deps)
	if u.Env != nil {
		c.Env = maps.Clone(u.Env)
	}
	return c
}

// Validate checks the enumerated fields hold known values.
func (u Unit) Validate() error {
	switch u.EngineOrDefault() {
	case EngineCmd, EngineNode, EngineDeno:
	default:
		return fmt.Errorf("unit %s: unknown engine %q", u.Label(), u.Engine)
	}
	switch u.Invalidation {
	case InvalidationDefault, InvalidationAlways, InvalidationNotFound, InvalidationContentHash, InvalidationMtime:
	default:
		return fmt.Errorf("unit %s: unknown invalidation %q", u.Label(), u.Invalidation)
	}
	switch u.Display {
	case DisplayDefault, DisplayInitStatus, DisplayStatusOnly, DisplayInitOnly, DisplayDot, DisplayNone:
	default:
		return fmt.Errorf("unit %s: unknown display %q", u.Label(), u.Display)
	}
	return nil
}

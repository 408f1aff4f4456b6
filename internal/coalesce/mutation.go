// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"maps"
	"slices"

	"github.com/specialistvlad/gridbuild/internal/command"
	"github.com/specialistvlad/gridbuild/internal/unit"
)

// Parsed is a mutating request broken down by a Grammar.
type Parsed struct {
	Family    string
	Operation string
	// Mode is the canonical mode flag, or empty for the default mode.
	Mode     string
	Subjects []string
}

// Grammar recognizes mutating requests of one or more families.
type Grammar interface {
	// Family reports the family a request belongs to, whether or not the
	// request parses. It is used to detect running members of a family.
	Family(r Request) (string, bool)
	// Parse breaks a request down. Requests that do not parse are left to
	// later rules.
	Parse(r Request) (Parsed, bool)
}

// Mutation merges structured mutating requests against a shared resource.
//
// While any request of a family is running, every parsed request of that
// family is queued. Otherwise the first mode seen for a family wins the tick:
// requests in that mode merge into one run with deduplicated subjects, and
// requests in any other mode are queued.
//
// Running includes requests started earlier in the same tick by a preceding
// rule of the Chain, not only the running set passed to Coalesce. An
// "npm init -y" started this tick therefore queues every npm install in the
// same batch, even one listed before it.
type Mutation struct {
	Grammar Grammar
}

type mutationGroup struct {
	parsed   Parsed
	engine   unit.Engine
	env      map[string]string
	ids      []unit.ID
	subjects []string
	seen     map[string]bool
}

func (g *mutationGroup) add(r Request, p Parsed) {
	g.ids = append(g.ids, r.ID)
	for k, v := range r.Env {
		if _, ok := g.env[k]; !ok {
			g.env[k] = v
		}
	}
	for _, s := range p.Subjects {
		if !g.seen[s] {
			g.seen[s] = true
			g.subjects = append(g.subjects, s)
		}
	}
}

func (g *mutationGroup) run() Run {
	cmd := command.New(g.parsed.Family).
		Arg(g.parsed.Operation).
		ArgIf(g.parsed.Mode != "", g.parsed.Mode).
		Arg(g.subjects...)
	run := Run{
		Run:        cmd.String(),
		Engine:     g.engine,
		CoveredIDs: slices.Clone(g.ids),
	}
	if len(g.env) > 0 {
		run.Env = maps.Clone(g.env)
	}
	return run
}

func (m Mutation) apply(t *tick) {
	if m.Grammar == nil {
		return
	}

	var order []*mutationGroup
	groups := make(map[string]*mutationGroup)
	for _, r := range t.pending() {
		p, ok := m.Grammar.Parse(r)
		if !ok {
			continue
		}
		if m.familyRunning(t, p.Family) {
			t.queue(r.ID)
			continue
		}
		g, ok := groups[p.Family]
		if !ok {
			g = &mutationGroup{
				parsed: p,
				engine: r.EngineOrDefault(),
				env:    make(map[string]string),
				seen:   make(map[string]bool),
			}
			groups[p.Family] = g
			order = append(order, g)
		} else if g.parsed.Mode != p.Mode || g.parsed.Operation != p.Operation {
			t.queue(r.ID)
			continue
		}
		g.add(r, p)
		t.claimed[r.ID] = true
	}

	for _, g := range order {
		t.emit(g.run())
	}
}

func (m Mutation) familyRunning(t *tick, family string) bool {
	_, ok := t.findRunning(func(r Request) bool {
		f, ok := m.Grammar.Family(r)
		return ok && f == family
	})
	return ok
}

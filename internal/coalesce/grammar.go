// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package coalesce

import (
	"slices"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/unit"
)

// shellMeta are characters that make a subject more than a plain word.
const shellMeta = "\"'`$;&|<>()\\"

// InstallGrammar parses package-manager style requests of the form
//
//	<tool> <operation> [mode-flag] <subject>...
//
// The request must be a single line run by the cmd engine. Token 0 names the
// family and must be one of Tools. Token 1 must equal Operation. Every other
// token is either a flag, starting with '-', or a subject. At most one flag is
// allowed and it must be a key of ModeFlags, which maps it to its canonical
// spelling. Subjects may not contain quotes or shell metacharacters, and at
// least one subject is required.
type InstallGrammar struct {
	Tools     []string
	Operation string
	ModeFlags map[string]string
}

// NpmInstallGrammar returns the grammar for "<tool> install [-D] pkg..." with
// --save-dev accepted as a spelling of -D.
func NpmInstallGrammar(tools ...string) InstallGrammar {
	return InstallGrammar{
		Tools:     tools,
		Operation: "install",
		ModeFlags: map[string]string{"-D": "-D", "--save-dev": "-D"},
	}
}

// Family implements Grammar. Any request whose first word is one of Tools
// belongs to that tool's family.
func (g InstallGrammar) Family(r Request) (string, bool) {
	fields := strings.Fields(r.Run)
	if len(fields) == 0 || !slices.Contains(g.Tools, fields[0]) {
		return "", false
	}
	return fields[0], true
}

// Parse implements Grammar.
func (g InstallGrammar) Parse(r Request) (Parsed, bool) {
	if r.EngineOrDefault() != unit.EngineCmd || strings.ContainsAny(strings.TrimSpace(r.Run), "\r\n") {
		return Parsed{}, false
	}
	family, ok := g.Family(r)
	if !ok {
		return Parsed{}, false
	}
	fields := strings.Fields(r.Run)
	if len(fields) < 2 || fields[1] != g.Operation {
		return Parsed{}, false
	}

	p := Parsed{Family: family, Operation: g.Operation}
	flags := 0
	for _, tok := range fields[2:] {
		if strings.HasPrefix(tok, "-") {
			flags++
			mode, ok := g.ModeFlags[tok]
			if flags > 1 || !ok {
				return Parsed{}, false
			}
			p.Mode = mode
			continue
		}
		if strings.ContainsAny(tok, shellMeta) {
			return Parsed{}, false
		}
		p.Subjects = append(p.Subjects, tok)
	}
	if len(p.Subjects) == 0 {
		return Parsed{}, false
	}
	return p, true
}

// RunIs returns a classifier accepting cmd engine requests whose run text,
// split on whitespace, is exactly words.
func RunIs(words ...string) func(Request) bool {
	return func(r Request) bool {
		return r.EngineOrDefault() == unit.EngineCmd && slices.Equal(strings.Fields(r.Run), words)
	}
}

// RunContains returns a classifier accepting cmd engine requests whose run
// text contains marker.
func RunContains(marker string) func(Request) bool {
	return func(r Request) bool {
		return r.EngineOrDefault() == unit.EngineCmd && strings.Contains(r.Run, marker)
	}
}

// InFamily returns a classifier accepting any request g assigns to family.
func InFamily(g Grammar, family string) func(Request) bool {
	return func(r Request) bool {
		f, ok := g.Family(r)
		return ok && f == family
	}
}

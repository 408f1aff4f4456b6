// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package template turns declarative build specs into concrete execution units.
//
// A Template is a pure function from a validated Spec and an immutable Ambient
// configuration to an ordered list of Items. Element 0 is always the primary
// unit implementing the spec; anything after it is auxiliary (config file
// bootstrap, advisory units, or nested Specs that invoke another template).
//
// Templates are contributed by modules at composition time through
// Module.Register. Once composition is finished the Registry is read-only and
// an Expander built on it can be shared between goroutines.
//
// The Expander owns the generic parts of expansion:
//   - merging per-template global options under the spec's own options
//   - validating options against the template's closed schema
//   - recursively expanding nested specs, spliced in place
//   - enforcing eject mode, where only the bare primary unit survives
package template

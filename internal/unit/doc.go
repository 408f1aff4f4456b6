// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package unit defines the execution unit, the descriptor shared between the
// template expander that produces it and the orchestrator that schedules and
// runs it.
//
// # Core Concepts
//
//   - Unit: one schedulable piece of work. It names the files it produces
//     (Targets), the files or unit names it waits on (Deps), the environment
//     it runs with, and the command text (Run) interpreted by an Engine.
//
//   - ID: the orchestrator's handle for a unit. Expansion never assigns IDs;
//     they are attached once the orchestrator takes ownership of a unit and
//     are the currency of batch coalescing decisions.
//
//   - Invalidation: how the orchestrator decides whether a unit is stale.
//     Template-managed bootstrap units use NotFound so they run at most once
//     per workspace.
package unit

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dispatch is the orchestrator side of batch coalescing. It selects
// the coalescer of a category for each tick, guards the orchestrator against
// decisions that do not partition the batch, and fans the outcome of one
// executed run back out to every unit that rode along with it.
package dispatch

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package coalesce decides, once per scheduling tick, how the units of one
// category that became ready together are turned into external process
// invocations.
//
// A Coalescer is a pure function of the ready batch and the set of units
// already running. It never owns units and keeps no state between calls. Its
// Decision partitions the batch: every id is queued for a later tick, covered
// by exactly one Run, or completed by another unit.
//
// Categories compose their coalescer from rules applied in order by a Chain:
//
//	Singleton  aliases repeated one-time bootstrap actions onto one survivor.
//	Mutation   merges structured mutating requests into one invocation per
//	           family and mode, and queues everything while the family runs.
//
// Whatever no rule claims is returned as a standalone Run covering only
// itself, so an unrecognized request is never dropped or stalled.
package coalesce

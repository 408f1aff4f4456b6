// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package testutil

import (
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/zclconf/go-cty/cty"
)

// Req builds a cmd engine request.
func Req(id int, run string) coalesce.Request {
	return coalesce.Request{ID: unit.ID(id), Run: run, Engine: unit.EngineCmd}
}

// Batch builds cmd engine requests numbered from 1 in the given order.
func Batch(runs ...string) []coalesce.Request {
	out := make([]coalesce.Request, len(runs))
	for i, run := range runs {
		out[i] = Req(i+1, run)
	}
	return out
}

// IDs converts ints to unit ids.
func IDs(v ...int) []unit.ID {
	out := make([]unit.ID, len(v))
	for i, id := range v {
		out[i] = unit.ID(id)
	}
	return out
}

// List builds a tuple of strings, the shape HCL gives a list literal.
func List(v ...string) cty.Value {
	if len(v) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(v))
	for i, s := range v {
		vals[i] = cty.StringVal(s)
	}
	return cty.TupleVal(vals)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package options implements the per-template option schema: a closed,
// statically declared table of recognized option keys with types and
// defaults, and the validation step every template invocation passes through
// before expansion.
//
// Validation fills omitted options with their defaults, rejects any key the
// schema does not recognize, enforces required options and converts each
// value to its declared cty type. The validated values can then be bound onto
// a template's typed options struct with Decode.
package options

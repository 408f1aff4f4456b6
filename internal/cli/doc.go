// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates cobra flags and GRIDBUILD_* environment variables into the
// application's internal configuration and renders results as text, YAML
// or JSON.
package cli

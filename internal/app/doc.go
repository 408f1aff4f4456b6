// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app contains the core application logic. It wires the template
// registry, the expander and the coalescing dispatcher together behind a
// single App value, decoupled from any specific entrypoint like a CLI.
package app

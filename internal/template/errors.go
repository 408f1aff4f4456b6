// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package template

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTemplate is returned when a spec names a template that was
	// never registered.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrTooDeep is returned when nested template invocations exceed the
	// expander's depth limit.
	ErrTooDeep = errors.New("nested template expansion too deep")
	// ErrNoPrimary is returned when a template's first item is not a unit.
	ErrNoPrimary = errors.New("template did not return a primary unit")
)

// ExpansionError reports a failure to expand a single spec.
type ExpansionError struct {
	Template string
	Spec     string
	Err      error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expanding %q with template %q: %v", e.Spec, e.Template, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package options

import (
	"errors"
	"fmt"
)

// ErrInvalidOption matches every ValidationError through errors.Is.
var ErrInvalidOption = errors.New("invalid template option")

// Reason classifies a validation failure.
type Reason string

const (
	ReasonUnknown Reason = "unrecognized"
	ReasonMissing Reason = "missing required"
	ReasonType    Reason = "invalid type for"
)

// ValidationError reports a single offending option of one template invocation.
type ValidationError struct {
	Template string
	Key      string
	Reason   Reason
	Err      error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s template option %q for template %q", e.Reason, e.Key, e.Template)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrInvalidOption.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidOption
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

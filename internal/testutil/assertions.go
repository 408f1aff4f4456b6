// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/options"
	"github.com/stretchr/testify/require"
)

// AssertLogged checks that the captured log output contains substr.
func AssertLogged(t *testing.T, buf *SafeBuffer, substr string) {
	t.Helper()

	require.True(t,
		strings.Contains(buf.String(), substr),
		"expected %q in log output:\n%s", substr, buf.String(),
	)
}

// RequireValidationError asserts err carries an *options.ValidationError for
// the given template and key, and returns it.
func RequireValidationError(t *testing.T, err error, template, key string) *options.ValidationError {
	t.Helper()

	require.Error(t, err)
	var verr *options.ValidationError
	require.True(t, errors.As(err, &verr), "expected a ValidationError, got %T: %v", err, err)
	require.Equal(t, template, verr.Template)
	require.Equal(t, key, verr.Key)
	return verr
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package options

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func installSchema() Schema {
	return Schema{
		Required(StringList("packages", "Packages to install.")),
		Bool("dev", false, "Install as dev dependencies."),
		String("package_manager", "npm", "Package manager executable."),
		Bool("auto_install", false, "Install automatically."),
	}
}

func TestSchema_Validate_AppliesDefaults(t *testing.T) {
	t.Parallel()

	got, err := installSchema().Validate("npm", Values{
		"packages": cty.TupleVal([]cty.Value{cty.StringVal("left-pad")}),
	})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.True(t, got["dev"].RawEquals(cty.False))
	assert.True(t, got["package_manager"].RawEquals(cty.StringVal("npm")))
	assert.True(t, got["auto_install"].RawEquals(cty.False))
	assert.True(t, got["packages"].Type().Equals(cty.List(cty.String)), "tuple should be converted to list(string)")
}

func TestSchema_Validate_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	given := Values{"packages": cty.ListVal([]cty.Value{cty.StringVal("a")})}
	_, err := installSchema().Validate("npm", given)
	require.NoError(t, err)
	assert.Len(t, given, 1)
}

func TestSchema_Validate_NullMeansOmitted(t *testing.T) {
	t.Parallel()

	got, err := installSchema().Validate("npm", Values{
		"packages":        cty.ListVal([]cty.Value{cty.StringVal("a")}),
		"package_manager": cty.NullVal(cty.String),
	})
	require.NoError(t, err)
	assert.True(t, got["package_manager"].RawEquals(cty.StringVal("npm")))
}

func TestSchema_Validate_Failures(t *testing.T) {
	t.Parallel()

	pkgs := cty.ListVal([]cty.Value{cty.StringVal("a")})

	testCases := []struct {
		name   string
		given  Values
		key    string
		reason Reason
	}{
		{
			name:   "unknown key",
			given:  Values{"packages": pkgs, "frobnicate": cty.True},
			key:    "frobnicate",
			reason: ReasonUnknown,
		},
		{
			name:   "unknown keys reported in lexical order",
			given:  Values{"packages": pkgs, "zeta": cty.True, "alpha": cty.True},
			key:    "alpha",
			reason: ReasonUnknown,
		},
		{
			name:   "unknown key wins over missing required",
			given:  Values{"extra": cty.True},
			key:    "extra",
			reason: ReasonUnknown,
		},
		{
			name:   "missing required",
			given:  Values{"dev": cty.True},
			key:    "packages",
			reason: ReasonMissing,
		},
		{
			name:   "wrong type",
			given:  Values{"packages": pkgs, "dev": cty.StringVal("sometimes")},
			key:    "dev",
			reason: ReasonType,
		},
		{
			name:   "unknown value",
			given:  Values{"packages": cty.UnknownVal(cty.List(cty.String))},
			key:    "packages",
			reason: ReasonType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := installSchema().Validate("npm", tc.given)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidOption))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "npm", verr.Template)
			assert.Equal(t, tc.key, verr.Key)
			assert.Equal(t, tc.reason, verr.Reason)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	got := Merge(
		Values{"dev": cty.True},
		Values{"dev": cty.False, "auto_install": cty.True},
	)
	want := Values{"dev": cty.True, "auto_install": cty.True}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestOption_DefaultString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "required", Required(StringList("packages", "")).DefaultString())
	assert.Equal(t, `"npm"`, String("package_manager", "npm", "").DefaultString())
	assert.Equal(t, "true", Bool("write", true, "").DefaultString())
	assert.Equal(t, `["browser","module"]`, StringList("env", "", "browser", "module").DefaultString())
	assert.Equal(t, "{}", StringMap("config", "").DefaultString())
	assert.Equal(t, "-", Optional(Bool("auto_install", false, "")).DefaultString())
}

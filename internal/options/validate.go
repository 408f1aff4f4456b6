// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package options

import (
	"github.com/zclconf/go-cty/cty/convert"
)

// Validate applies defaults to given and checks the result against the
// schema. The returned Values hold every recognized option that is present,
// converted to its declared type. given is never modified.
//
// Unknown keys are reported before missing or mistyped ones, and keys are
// examined in lexical order, so the same input always yields the same error.
func (s Schema) Validate(template string, given Values) (Values, error) {
	out := make(Values, len(s))
	for k, v := range given {
		// An explicit null is treated as if the option were omitted.
		if v.IsNull() {
			continue
		}
		out[k] = v
	}
	for _, opt := range s {
		if _, ok := out[opt.Name]; !ok && opt.Default != nil {
			out[opt.Name] = *opt.Default
		}
	}

	for _, key := range out.SortedKeys() {
		if _, ok := s.Lookup(key); !ok {
			return nil, &ValidationError{Template: template, Key: key, Reason: ReasonUnknown}
		}
	}

	for _, opt := range s {
		val, ok := out[opt.Name]
		if !ok {
			if opt.Required {
				return nil, &ValidationError{Template: template, Key: opt.Name, Reason: ReasonMissing}
			}
			continue
		}
		if !val.IsWhollyKnown() {
			return nil, &ValidationError{Template: template, Key: opt.Name, Reason: ReasonType, Err: errUnknownValue}
		}
		converted, err := convert.Convert(val, opt.Type)
		if err != nil {
			return nil, &ValidationError{Template: template, Key: opt.Name, Reason: ReasonType, Err: err}
		}
		out[opt.Name] = converted
	}

	return out, nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package options

import (
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Values holds template option values keyed by option name.
type Values map[string]cty.Value

// Option describes one recognized template option.
type Option struct {
	Name        string
	Type        cty.Type
	Description string

	// Default is applied when the caller omits the option. A nil Default
	// leaves the option absent.
	Default *cty.Value

	// Required options must be present once defaults are applied.
	Required bool
}

// Schema is the ordered set of options a template recognizes.
type Schema []Option

// Lookup returns the option with the given name.
func (s Schema) Lookup(name string) (Option, bool) {
	for _, opt := range s {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Names returns the recognized option names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, opt := range s {
		names[i] = opt.Name
	}
	return names
}

// DefaultString renders an option's default for documentation output.
func (o Option) DefaultString() string {
	switch {
	case o.Required:
		return "required"
	case o.Default == nil || o.Default.IsNull():
		return "-"
	default:
		return FormatValue(*o.Default)
	}
}

func withDefault(opt Option, v cty.Value) Option {
	opt.Default = &v
	return opt
}

// String declares a string option with a default.
func String(name, def, description string) Option {
	return withDefault(Option{Name: name, Type: cty.String, Description: description}, cty.StringVal(def))
}

// Bool declares a bool option with a default.
func Bool(name string, def bool, description string) Option {
	return withDefault(Option{Name: name, Type: cty.Bool, Description: description}, cty.BoolVal(def))
}

// StringList declares a list(string) option. The default is the given values,
// or an empty list.
func StringList(name string, description string, def ...string) Option {
	opt := Option{Name: name, Type: cty.List(cty.String), Description: description}
	return withDefault(opt, ListOf(def...))
}

// ListOf builds a list(string) value, empty when no values are given.
func ListOf(values ...string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

// StringMap declares a map(string) option that defaults to an empty map.
func StringMap(name, description string) Option {
	return withDefault(Option{Name: name, Type: cty.Map(cty.String), Description: description}, cty.MapValEmpty(cty.String))
}

// Required marks an option as required and drops its default.
func Required(opt Option) Option {
	opt.Required = true
	opt.Default = nil
	return opt
}

// Optional drops an option's default so an omitted value stays absent and
// can be inherited by a nested template invocation.
func Optional(opt Option) Option {
	opt.Default = nil
	return opt
}

// Merge returns a copy of primary with any key it lacks filled from
// fallback. Values in primary always win.
func Merge(primary, fallback Values) Values {
	out := make(Values, len(primary)+len(fallback))
	maps.Copy(out, fallback)
	maps.Copy(out, primary)
	return out
}

// SortedKeys returns the keys of v in lexical order.
func (v Values) SortedKeys() []string {
	return slices.Sorted(maps.Keys(v))
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package options

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zclconf/go-cty/cty/gocty"
)

var errUnknownValue = errors.New("value must be a literal known at load time")

// Decode binds validated values onto the exported fields of the struct
// pointed to by target. Fields are matched by their `opt` tag; fields without
// a tag, tagged "-", or without a present value are left untouched.
func Decode(values Values, target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("options: decode target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal := ptr.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("opt"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		val, ok := values[name]
		if !ok || val.IsNull() {
			continue
		}
		if err := gocty.FromCtyValue(val, structVal.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("options: decoding %q into field %s: %w", name, field.Name, err)
		}
	}
	return nil
}

// FormatValue renders a value as compact JSON, or "null".
func FormatValue(v cty.Value) string {
	if v.IsNull() || !v.IsWhollyKnown() {
		return "null"
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}

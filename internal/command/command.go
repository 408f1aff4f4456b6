// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package command builds external process invocations as structured values:
// an executable plus an ordered list of arguments, each guarded by an
// inclusion condition. Commands become text only when String is called at
// the boundary where a unit's Run field is filled in.
package command

import (
	"strings"
)

type arg struct {
	values  []string
	include bool
}

// Command is an executable and its conditional arguments.
type Command struct {
	Executable string
	args       []arg
}

// New starts a command for the given executable.
func New(executable string) *Command {
	return &Command{Executable: executable}
}

// Arg appends arguments that are always included.
func (c *Command) Arg(values ...string) *Command {
	return c.ArgIf(true, values...)
}

// ArgIf appends arguments that are included only when include is true.
func (c *Command) ArgIf(include bool, values ...string) *Command {
	if len(values) == 0 {
		return c
	}
	c.args = append(c.args, arg{values: values, include: include})
	return c
}

// ArgEach appends one argument per value, formatted by format, when include is true.
func (c *Command) ArgEach(include bool, values []string, format func(string) string) *Command {
	for _, v := range values {
		c.ArgIf(include, format(v))
	}
	return c
}

// Args returns the included arguments in order.
func (c *Command) Args() []string {
	var out []string
	for _, a := range c.args {
		if a.include {
			out = append(out, a.values...)
		}
	}
	return out
}

// Argv returns the executable followed by the included arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Executable}, c.Args()...)
}

// String renders the command as a single space separated line.
func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Script joins rendered lines into a multi-line shell script.
func Script(lines ...string) string {
	return strings.Join(lines, "\n")
}

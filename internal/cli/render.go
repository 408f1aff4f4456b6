// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
var outputFormats = []string{"text", "yaml", "json"}

func checkOutput(format string) error {
	if !slices.Contains(outputFormats, format) {
		return usageError("invalid output %q: must be one of %v", format, outputFormats)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// styles holds the text output styles for one writer. Colors are dropped
// automatically when the writer is not a terminal.
type styles struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	id      lipgloss.Style
	err     lipgloss.Style
	ok      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		id:      r.NewStyle().Width(4).Align(lipgloss.Right),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#6BCB77")),
	}
}

// indent prefixes every line of s with prefix.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

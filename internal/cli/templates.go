// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"fmt"
	"io"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/specialistvlad/gridbuild/internal/template"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTemplatesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "templates [NAME]",
		Short: "List templates and the options they accept",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := newConfig(v, "")
			if err != nil {
				return err
			}
			reg := app.NewApp(cmd.ErrOrStderr(), cfg).Registry()

			templates := reg.Templates()
			if len(args) > 0 {
				tpl, ok := reg.Template(args[0])
				if !ok {
					return usageError("unknown template %q", args[0])
				}
				templates = []template.Template{tpl}
			}
			writeTemplatesText(cmd.OutOrStdout(), templates)
			return nil
		},
	}
}

// writeTemplatesText prints one option table per template.
func writeTemplatesText(w io.Writer, templates []template.Template) {
	st := newStyles(w)
	for i, tpl := range templates {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, st.heading.Render(tpl.Name()))

		schema := tpl.Schema()
		rows := make([][4]string, 0, len(schema)+1)
		rows = append(rows, [4]string{"OPTION", "TYPE", "DEFAULT", "DESCRIPTION"})
		for _, opt := range schema {
			rows = append(rows, [4]string{opt.Name, opt.Type.FriendlyName(), opt.DefaultString(), opt.Description})
		}

		var widths [3]int
		for _, row := range rows {
			for c := range widths {
				widths[c] = max(widths[c], len(row[c]))
			}
		}
		for r, row := range rows {
			line := "  " + padRight(row[0], widths[0]) + "  " + padRight(row[1], widths[1]) + "  " + padRight(row[2], widths[2]) + "  " + row[3]
			if r == 0 {
				line = st.muted.Render(line)
			}
			fmt.Fprintln(w, line)
		}
	}
}

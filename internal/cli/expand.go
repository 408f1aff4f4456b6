// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newExpandCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [BUILD_PATH]",
		Short: "Expand build tasks into execution units",
		Long: `Expand loads every .hcl build file under BUILD_PATH (default ".") and
prints the execution units each task expands to. Tasks that fail to expand are
reported alongside the others and make the command exit with status 1.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runExpand(cmd, v, path)
		},
	}
	cmd.Flags().Bool("eject", false, "Expand without template managed units and dependencies.")
	cmd.Flags().String("task", "", "Only expand tasks whose name matches this glob.")
	cmd.Flags().StringP("output", "o", "text", "Output format. Options: 'text', 'yaml' or 'json'.")
	return cmd
}

func runExpand(cmd *cobra.Command, v *viper.Viper, path string) error {
	output := v.GetString("output")
	if err := checkOutput(output); err != nil {
		return err
	}
	cfg, err := newConfig(v, path)
	if err != nil {
		return err
	}

	a := app.NewApp(cmd.ErrOrStderr(), cfg)
	plan, err := a.Expand(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch output {
	case "yaml":
		err = writeYAML(w, plan)
	case "json":
		err = writeJSON(w, plan)
	default:
		writePlanText(w, plan)
	}
	if err != nil {
		return err
	}

	if planErr := plan.Err(); planErr != nil {
		failed := 0
		for _, t := range plan.Tasks {
			if t.Error != "" {
				failed++
			}
		}
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d tasks failed to expand", failed, len(plan.Tasks))}
	}
	return nil
}

func writePlanText(w io.Writer, plan *app.Plan) {
	st := newStyles(w)
	if len(plan.Tasks) == 0 {
		fmt.Fprintln(w, st.muted.Render("No tasks."))
		return
	}
	for i, t := range plan.Tasks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", st.heading.Render(t.Task), st.muted.Render("("+t.Template+")"))
		if t.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", st.err.Render("error:"), t.Error)
			continue
		}
		for _, u := range t.Units {
			fmt.Fprintf(w, "%s  %s\n", st.id.Render(fmt.Sprint(u.ID)), u.Label())
			if len(u.Deps) > 0 {
				fmt.Fprintf(w, "      %s %s\n", st.muted.Render("deps:"), strings.Join(u.Deps, ", "))
			}
			if u.Run != "" {
				fmt.Fprintf(w, "      %s\n%s\n", st.muted.Render("run:"), indent(u.Run, "        "))
			}
		}
	}
}

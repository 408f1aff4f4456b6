// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCoalesceCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coalesce BATCH_FILE",
		Short: "Decide how one tick's batch of commands is executed",
		Long: `Coalesce reads a YAML or JSON batch file of the form

  category: npm
  batch:
    - {id: 1, run: npm install lit}
  running:
    - {id: 7, run: npm init -y}

and prints which commands run (merged where possible), which are queued for a
later tick, and which share the outcome of another command.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoalesce(cmd, v, args[0])
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format. Options: 'text', 'yaml' or 'json'.")
	return cmd
}

func runCoalesce(cmd *cobra.Command, v *viper.Viper, path string) error {
	output := v.GetString("output")
	if err := checkOutput(output); err != nil {
		return err
	}
	cfg, err := newConfig(v, "")
	if err != nil {
		return err
	}
	bf, err := app.ReadBatchFile(path)
	if err != nil {
		return err
	}

	a := app.NewApp(cmd.ErrOrStderr(), cfg)
	decision := a.Coalesce(cmd.Context(), bf)

	w := cmd.OutOrStdout()
	switch output {
	case "yaml":
		return writeYAML(w, decision)
	case "json":
		return writeJSON(w, decision)
	default:
		writeDecisionText(w, decision)
		return nil
	}
}

func writeDecisionText(w io.Writer, d coalesce.Decision) {
	st := newStyles(w)
	for _, r := range d.Runs {
		fmt.Fprintf(w, "%s %s %s\n", st.ok.Render("run"), st.muted.Render(formatIDs(r.CoveredIDs)), r.Run)
	}
	if len(d.Queued) > 0 {
		fmt.Fprintf(w, "%s %s\n", st.heading.Render("queued"), formatIDs(d.Queued))
	}
	ids := make([]unit.ID, 0, len(d.Completions))
	for id := range d.Completions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%s %d -> %d\n", st.muted.Render("complete"), id, d.Completions[id])
	}
}

func formatIDs(ids []unit.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

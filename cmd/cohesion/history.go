package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/history"
	"mercator-hq/cohesion/pkg/lint"
)

var historyFlags struct {
	format string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded analyze runs",
	Long: `Inspect runs recorded with "cohesion analyze --record" or with
history.enabled set in the configuration.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  listRuns,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its reports",
	Long: `Show one recorded run with the reports of every file. A unique prefix of
the run id is enough.`,
	Args: cobra.ExactArgs(1),
	RunE: showRun,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: json, text")
	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum runs to list (0 for all)")
}

func openHistory() (*app, *history.Store, error) {
	if historyFlags.format != string(cli.FormatJSON) && historyFlags.format != string(cli.FormatText) {
		return nil, nil, fmt.Errorf("unknown format %q (want json or text)", historyFlags.format)
	}
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(a.cfg.History, a.slog())
	if err != nil {
		a.close()
		return nil, nil, cli.NewCommandError("history", err)
	}
	return a, store, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	a, store, err := openHistory()
	if err != nil {
		return err
	}
	defer a.close()
	defer store.Close()

	runs, err := store.List(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	out := cmd.OutOrStdout()
	if historyFlags.format == string(cli.FormatJSON) {
		if runs == nil {
			runs = []history.Run{}
		}
		return write(out, cli.FormatJSON, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}
	for _, r := range runs {
		writeRunLine(out, r)
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	a, store, err := openHistory()
	if err != nil {
		return err
	}
	defer a.close()
	defer store.Close()

	run, files, err := store.Show(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	out := cmd.OutOrStdout()
	if historyFlags.format == string(cli.FormatJSON) {
		return write(out, cli.FormatJSON, struct {
			history.Run
			Results []history.FileResult `json:"results"`
		}{run, files})
	}

	writeRunLine(out, run)
	items := make([]any, len(files))
	for i, f := range files {
		if f.Report != nil {
			items[i] = *f.Report
			continue
		}
		items[i] = lint.ErrorReport{Error: true, Message: f.Error, FilePath: f.Path}
	}
	return write(out, cli.FormatText, items)
}

func writeRunLine(w io.Writer, r history.Run) {
	status := "compliant"
	if !r.Compliant() {
		status = "not compliant"
	}
	rev := ""
	if len(r.GitRevision) >= 7 {
		rev = " @" + r.GitRevision[:7]
	}
	fmt.Fprintf(w, "%s  %s  %s%s  %d file(s), %d violation(s), %d warning(s), %d error(s)  %s\n",
		shortID(r.ID), r.StartedAt.Local().Format(time.DateTime), status, rev,
		r.Files, r.Violations, r.Warnings, r.Errors, r.Duration.Round(time.Millisecond))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

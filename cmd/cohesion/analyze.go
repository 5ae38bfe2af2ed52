package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/engine"
	"mercator-hq/cohesion/pkg/gitscope"
	"mercator-hq/cohesion/pkg/history"
	"mercator-hq/cohesion/pkg/lint"
	"mercator-hq/cohesion/pkg/telemetry/logging"
)

var analyzeFlags struct {
	format        string
	changed       bool
	since         string
	record        bool
	noProgress    bool
	stdinFilename string
	context       int
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Analyze source files",
	Long: `Analyze JavaScript and TypeScript files against the house style.

A single file prints one JSON report. Several files, or a directory, print a
JSON array with one report per file. Files that cannot be read or analyzed
appear as {"error": true, "message": ..., "filePath": ...}.

Use "-" to read one file from stdin.

Examples:
  # Analyze one file
  cohesion analyze src/App.tsx

  # Analyze a directory as coloured text
  cohesion analyze src --format text

  # Analyze files changed in the working tree
  cohesion analyze --changed

  # Analyze files changed since a revision, recording the run in history
  cohesion analyze --changed --since origin/main --record

  # Analyze from stdin
  cat App.tsx | cohesion analyze - --stdin-filename App.tsx`,
	RunE: analyzeFiles,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.format, "format", "f", "json", "output format: json, text, csv")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.changed, "changed", false, "analyze files changed in the git working tree")
	analyzeCmd.Flags().StringVar(&analyzeFlags.since, "since", "", "with --changed, also include files changed since this revision")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.record, "record", false, "record the run in the history database")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noProgress, "no-progress", false, "disable the progress bar")
	analyzeCmd.Flags().StringVar(&analyzeFlags.stdinFilename, "stdin-filename", "stdin.tsx", "file path reported for stdin input")
	analyzeCmd.Flags().IntVar(&analyzeFlags.context, "context", 1, "source lines shown around each violation in text output (-1 disables excerpts)")
}

func analyzeFiles(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(analyzeFlags.format)
	if err != nil {
		return err
	}
	if analyzeFlags.since != "" && !analyzeFlags.changed {
		return fmt.Errorf("--since requires --changed")
	}
	if len(args) == 0 && !analyzeFlags.changed {
		return fmt.Errorf("no paths given (use --changed to analyze modified files)")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	runID := history.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	out := cmd.OutOrStdout()

	if len(args) == 1 && args[0] == "-" {
		return analyzeStdin(ctx, a, cmd.InOrStdin(), out, format)
	}

	paths, single, err := selectPaths(a.cfg, args)
	if err != nil {
		return err
	}

	progress := cli.ProgressReporter(cli.NopProgress{})
	if !analyzeFlags.noProgress && len(paths) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
		progress = cli.NewProgressReporter(os.Stderr)
	}
	eng, err := a.newEngine(engine.WithFileDone(func(engine.Result) { progress.Advance() }))
	if err != nil {
		return err
	}

	start := time.Now()
	progress.Start(len(paths))
	results := eng.AnalyzeFiles(ctx, paths)
	progress.Finish()

	if ctx.Err() != nil {
		return cli.NewCommandError("analyze", ctx.Err())
	}

	items := reportItems(results)
	var data any = items
	if single {
		data = items[0]
	}
	if err := writeWithSource(out, format, data, cli.ReadSource, analyzeFlags.context); err != nil {
		return err
	}

	if analyzeFlags.record || a.cfg.History.Enabled {
		if err := recordRun(ctx, a, runID, start, results); err != nil {
			return err
		}
	}

	if failed := failedFiles(results); failed > 0 {
		return cli.NewExitError(cli.ExitFailed, fmt.Errorf("%d of %d file(s) not compliant", failed, len(results)))
	}
	return nil
}

// selectPaths resolves the command arguments into source files. single is
// true when exactly one file was named, which selects single-report output.
func selectPaths(cfg *config.Config, args []string) (paths []string, single bool, err error) {
	if analyzeFlags.changed {
		repo, err := gitscope.Open(".")
		if err != nil {
			return nil, false, cli.NewCommandError("analyze", err)
		}
		changed, err := repo.ChangedFiles(analyzeFlags.since, cfg.Engine.Extensions)
		if err != nil {
			return nil, false, cli.NewCommandError("analyze", err)
		}
		return within(changed, args), false, nil
	}

	paths, err = engine.Expand(args, cfg.Engine.Extensions, cfg.Engine.Ignore)
	if err != nil {
		return nil, false, cli.NewCommandError("analyze", err)
	}
	if len(args) == 1 && len(paths) == 1 {
		info, statErr := os.Stat(args[0])
		single = statErr != nil || !info.IsDir()
	}
	return paths, single, nil
}

// within keeps the paths lying under one of roots. No roots keeps all.
func within(paths, roots []string) []string {
	if len(roots) == 0 {
		return paths
	}
	var kept []string
	for _, p := range paths {
		for _, root := range roots {
			abs, err := filepath.Abs(root)
			if err != nil {
				continue
			}
			rel, err := filepath.Rel(abs, p)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

func analyzeStdin(ctx context.Context, a *app, in io.Reader, out io.Writer, format cli.OutputFormat) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return cli.NewCommandError("analyze", fmt.Errorf("failed to read stdin: %w", err))
	}
	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	var data any
	report, err := eng.AnalyzeSource(ctx, analyzeFlags.stdinFilename, src)
	if err != nil {
		data = lint.NewErrorReport(analyzeFlags.stdinFilename, err)
	} else {
		data = report
	}
	stdinSource := func(string) []byte { return src }
	if werr := writeWithSource(out, format, data, stdinSource, analyzeFlags.context); werr != nil {
		return werr
	}
	if err != nil || !report.IsCompliant {
		return cli.NewExitError(cli.ExitFailed, fmt.Errorf("%s not compliant", analyzeFlags.stdinFilename))
	}
	return nil
}

func recordRun(ctx context.Context, a *app, runID string, start time.Time, results []engine.Result) error {
	store, err := history.Open(a.cfg.History, a.slog())
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	run := history.Run{
		ID:          runID,
		StartedAt:   start,
		Duration:    time.Since(start),
		ToolVersion: Version,
	}
	if repo, err := gitscope.Open("."); err == nil {
		if head, err := repo.Head(); err == nil {
			run.GitRevision = head.SHA
		}
	}

	recorded, err := store.Record(ctx, run, history.FromResults(results))
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	a.logger.Info("run recorded", "run_id", recorded.ID, "files", recorded.Files)

	if _, err := store.PruneExpired(ctx, time.Now()); err != nil {
		a.logger.Warn("failed to prune history", "error", err)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/history"
	"mercator-hq/cohesion/pkg/telemetry/health"
	"mercator-hq/cohesion/pkg/watch"
)

var watchFlags struct {
	format      string
	debounce    time.Duration
	metricsAddr string
	record      bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze sources as they change",
	Long: `Analyze a source tree, then re-analyze each file as it is saved.

A full rescan runs on watch.rescan_schedule (midnight by default) so a
deferral that expires overnight shows up without an edit.

With --metrics-addr the command also serves:
  /metrics   Prometheus metrics
  /healthz   liveness probe
  /readyz    readiness probe (watcher, history database)
  /version   build information

Examples:
  cohesion watch src
  cohesion watch src --format text --debounce 500ms
  cohesion watch . --metrics-addr 127.0.0.1:9464`,
	Args: cobra.MaximumNArgs(1),
	RunE: watchSources,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "text", "output format: json, text, csv")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "override watch.debounce")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "override watch.metrics_addr")
	watchCmd.Flags().BoolVar(&watchFlags.record, "record", false, "record every cycle in the history database")
}

func watchSources(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(watchFlags.format)
	if err != nil {
		return err
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	watchCfg := a.cfg.Watch
	if watchFlags.debounce > 0 {
		watchCfg.Debounce = watchFlags.debounce
	}
	if watchFlags.metricsAddr != "" {
		watchCfg.MetricsAddr = watchFlags.metricsAddr
	}
	if watchCfg.MetricsAddr != "" {
		a.cfg.Telemetry.Metrics.Enabled = true
	}

	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	opts := []watch.Option{
		watch.WithLogger(a.slog()),
		watch.WithMetricsHandler(a.collector.Handler(), a.cfg.Telemetry.Metrics.Path),
		watch.WithVersion(health.VersionInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate}),
	}
	if watchFlags.record || a.cfg.History.Enabled {
		store, err := history.Open(a.cfg.History, a.slog())
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		defer store.Close()
		opts = append(opts, watch.WithHistory(store, Version))
	}

	out := cmd.OutOrStdout()
	runner := watch.NewRunner(eng, a.cfg.Engine, watchCfg, func(c watch.Cycle) {
		if err := writeCycle(out, format, c); err != nil {
			a.logger.Error("failed to write results", "error", err)
		}
	}, opts...)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if err := runner.Run(ctx, root); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// writeCycle prints a cycle. Text output leads with a header line; JSON
// and CSV print only the reports so the stream stays machine readable.
func writeCycle(w io.Writer, format cli.OutputFormat, c watch.Cycle) error {
	if format == cli.FormatText {
		fmt.Fprintf(w, "\n[%s] %s: %d file(s), %d not compliant\n",
			c.StartedAt.Format(time.TimeOnly), c.Trigger, len(c.Results), failedFiles(c.Results))
		for _, p := range c.Removed {
			fmt.Fprintf(w, "%s removed\n", p)
		}
		if len(c.Results) == 0 {
			return nil
		}
	}
	return write(w, format, reportItems(c.Results))
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/engine"
	"mercator-hq/cohesion/pkg/lint"
	"mercator-hq/cohesion/pkg/rules"
	"mercator-hq/cohesion/pkg/telemetry/logging"
	"mercator-hq/cohesion/pkg/telemetry/metrics"
	"mercator-hq/cohesion/pkg/telemetry/tracing"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
}

// loadApp loads the configuration and starts logging, metrics and tracing.
// Callers must call close.
func loadApp() (*app, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewCommandError("config", err)
	}
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, cli.NewCommandError("config", fmt.Errorf("configuration not loaded"))
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewCommandError("logging", err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, cli.NewCommandError("tracing", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:    tracer,
	}, nil
}

func (a *app) close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

func (a *app) slog() *slog.Logger {
	return a.logger.Slog()
}

// newEngine builds an engine over the enabled rules.
func (a *app) newEngine(opts ...engine.Option) (*engine.Engine, error) {
	rs, err := rules.Registry(a.cfg.Rules)
	if err != nil {
		return nil, cli.NewCommandError("rules", err)
	}
	base := []engine.Option{
		engine.WithLogger(a.slog()),
		engine.WithObserver(a.collector),
		engine.WithTracer(a.tracer),
	}
	return engine.New(a.cfg.Engine, rs, append(base, opts...)...), nil
}

func parseFormat(s string) (cli.OutputFormat, error) {
	if !slices.Contains(cli.Formats(), s) {
		return "", fmt.Errorf("unknown format %q (want one of %v)", s, cli.Formats())
	}
	return cli.OutputFormat(s), nil
}

func write(w io.Writer, format cli.OutputFormat, data any) error {
	return cli.NewFormatter(format, cli.ColorEnabled(w)).FormatTo(w, data)
}

// writeWithSource is write with source excerpts under each violation in
// text output. A negative contextLines disables the excerpts.
func writeWithSource(w io.Writer, format cli.OutputFormat, data any, source cli.SourceFunc, contextLines int) error {
	if format != cli.FormatText || contextLines < 0 {
		return write(w, format, data)
	}
	f := &cli.TextFormatter{
		Color:        cli.ColorEnabled(w),
		Source:       source,
		ContextLines: contextLines,
	}
	return f.FormatTo(w, data)
}

// reportItems converts batch results into reports, using an error report
// for files that could not be analyzed.
func reportItems(results []engine.Result) []any {
	items := make([]any, len(results))
	for i, r := range results {
		if r.Err != nil {
			items[i] = lint.NewErrorReport(r.Path, r.Err)
			continue
		}
		items[i] = r.Report
	}
	return items
}

// failedFiles counts results that are not compliant or not analyzed.
func failedFiles(results []engine.Result) int {
	var n int
	for _, r := range results {
		if r.Err != nil || !r.Report.IsCompliant {
			n++
		}
	}
	return n
}

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/engine"
	"mercator-hq/cohesion/pkg/history"
	"mercator-hq/cohesion/pkg/server"
	"mercator-hq/cohesion/pkg/telemetry/health"
)

// Trigger names what started an analysis cycle.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerChange  Trigger = "change"
	TriggerRescan  Trigger = "rescan"
)

// Cycle is one analysis pass in watch mode.
type Cycle struct {
	Trigger   Trigger
	StartedAt time.Time
	Duration  time.Duration
	Results   []engine.Result

	// Removed lists changed files that no longer exist.
	Removed []string
}

// Runner keeps a source tree analyzed: a full pass on start, incremental
// passes on file changes, and full rescans on a cron schedule so deferrals
// that expire overnight are reported without an edit.
type Runner struct {
	engine    *engine.Engine
	engineCfg config.EngineConfig
	watchCfg  config.WatchConfig
	emit      func(Cycle)
	logger    *slog.Logger

	history     *history.Store
	toolVersion string
	metrics     http.Handler
	metricsPath string
	version     health.VersionInfo

	scanMu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHistory records every cycle in store and prunes it on schedule.
func WithHistory(store *history.Store, toolVersion string) Option {
	return func(r *Runner) {
		r.history = store
		r.toolVersion = toolVersion
	}
}

// WithMetricsHandler exposes h at path on the status server.
func WithMetricsHandler(h http.Handler, path string) Option {
	return func(r *Runner) {
		r.metrics = h
		r.metricsPath = path
	}
}

// WithVersion sets the build information served on the status server.
func WithVersion(info health.VersionInfo) Option {
	return func(r *Runner) {
		r.version = info
	}
}

// NewRunner creates a runner analyzing with eng and reporting each cycle
// to emit. emit is never called concurrently.
func NewRunner(eng *engine.Engine, engineCfg config.EngineConfig, watchCfg config.WatchConfig, emit func(Cycle), opts ...Option) *Runner {
	r := &Runner{
		engine:    eng,
		engineCfg: engineCfg,
		watchCfg:  watchCfg,
		emit:      emit,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "watch")
	return r
}

// Run watches root until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fw, err := NewFileWatcher(FileWatcherConfig{
		Root:       root,
		Debounce:   r.watchCfg.Debounce,
		Extensions: r.engineCfg.Extensions,
		Ignore:     r.engineCfg.Ignore,
	}, r.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.FullScan(ctx, root, TriggerInitial); err != nil {
		return err
	}

	rescans := cron.New()
	if r.watchCfg.RescanSchedule != "" {
		if _, err := rescans.AddFunc(r.watchCfg.RescanSchedule, func() {
			if err := r.FullScan(ctx, root, TriggerRescan); err != nil && ctx.Err() == nil {
				r.logger.Error("scheduled rescan failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", r.watchCfg.RescanSchedule, err)
		}
	}
	rescans.Start()
	defer func() { <-rescans.Stop().Done() }()

	checker := health.New(2 * time.Second)
	checker.RegisterCheck("watcher", func(context.Context) error {
		if !fw.Running() {
			return errors.New("file watcher is not running")
		}
		return nil
	})

	if r.history != nil {
		pruner := history.NewScheduler(r.history, "")
		if err := pruner.Start(ctx); err != nil {
			return err
		}
		defer pruner.Stop()
		checker.RegisterCheck("history", r.history.Ping)
	}

	var wg sync.WaitGroup
	var serverErr error
	if r.watchCfg.MetricsAddr != "" {
		srv := server.New(server.Config{
			Addr:        r.watchCfg.MetricsAddr,
			MetricsPath: r.metricsPath,
			Metrics:     r.metrics,
			Checker:     checker,
			Version:     r.version,
		}, r.logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				serverErr = err
				cancel()
			}
		}()
	}

	watchErr := fw.Watch(ctx, func(paths []string) {
		if err := r.Changed(ctx, paths); err != nil && ctx.Err() == nil {
			r.logger.Error("incremental analysis failed", "error", err)
		}
	})
	cancel()
	wg.Wait()
	return errors.Join(watchErr, serverErr)
}

// FullScan analyzes every source file under root.
func (r *Runner) FullScan(ctx context.Context, root string, trigger Trigger) error {
	paths, err := engine.Expand([]string{root}, r.engineCfg.Extensions, r.engineCfg.Ignore)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	return r.analyze(ctx, trigger, paths, nil)
}

// Changed analyzes the given changed files. Files that no longer exist
// are reported in Cycle.Removed.
func (r *Runner) Changed(ctx context.Context, paths []string) error {
	var existing, removed []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			removed = append(removed, p)
			continue
		}
		existing = append(existing, p)
	}
	return r.analyze(ctx, TriggerChange, existing, removed)
}

func (r *Runner) analyze(ctx context.Context, trigger Trigger, paths, removed []string) error {
	r.scanMu.Lock()
	defer r.scanMu.Unlock()

	start := time.Now()
	results := r.engine.AnalyzeFiles(ctx, paths)
	if err := ctx.Err(); err != nil {
		return err
	}
	cycle := Cycle{
		Trigger:   trigger,
		StartedAt: start,
		Duration:  time.Since(start),
		Results:   results,
		Removed:   removed,
	}
	r.logger.Debug("analysis cycle completed",
		"trigger", string(trigger),
		"files", len(results),
		"removed", len(removed),
		"duration_ms", cycle.Duration.Milliseconds(),
	)
	r.emit(cycle)

	if r.history != nil && len(results) > 0 {
		run := history.Run{StartedAt: start, Duration: cycle.Duration, ToolVersion: r.toolVersion}
		if _, err := r.history.Record(ctx, run, history.FromResults(results)); err != nil {
			return fmt.Errorf("failed to record %s cycle: %w", trigger, err)
		}
	}
	return nil
}

// Package watch re-analyzes a source tree as it changes.
//
// A Runner performs a full pass when it starts, then listens for file
// system events through fsnotify. Changes are debounced into batches and
// only the touched files are analyzed again. A cron schedule
// (watch.rescan_schedule, midnight by default) triggers full rescans, so a
// COMPLEXITY-TODO whose expiry date passes overnight turns into a violation
// without anyone touching the file.
//
// When watch.metrics_addr is set, the runner serves Prometheus metrics and
// the /healthz, /readyz and /version probes for as long as it runs.
//
//	runner := watch.NewRunner(eng, cfg.Engine, cfg.Watch, func(c watch.Cycle) {
//	    printCycle(out, c)
//	})
//	err := runner.Run(ctx, "src")
package watch

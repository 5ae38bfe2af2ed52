// Package engine runs the rule set over source files.
//
// For each file the engine parses the source once, scans its exemption
// comments once, and then runs every registered rule in registry order.
// Each rule's output passes through the exemption gate before it is merged.
// The merged violations are sorted by priority and line into a lint.Report.
//
// # Parse failures
//
// A file with syntax errors still produces a report. The failure is logged
// as a warning and the rules run with a nil tree, so only the text rules
// (and deferral warnings) contribute.
//
// # Checker faults
//
// A checker that panics is isolated by default: its output is replaced by a
// single priority 0 violation whose rule id is the faulted rule and whose
// message starts with "checker fault: ". The other rules still run. With
// engine.isolate_faults set to false, the file's analysis is aborted with a
// *CheckerFaultError instead.
//
// # Batches
//
// AnalyzeFiles runs a bounded worker pool, one parser per worker, and
// returns results in input order. Expand turns directory arguments into the
// file list.
//
// # Usage
//
//	rs, err := rules.Registry(cfg.Rules)
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(cfg.Engine, rs,
//	    engine.WithLogger(logger.Slog()),
//	    engine.WithObserver(collector),
//	)
//	report, err := eng.AnalyzeFile(ctx, "src/user-card.tsx")
package engine

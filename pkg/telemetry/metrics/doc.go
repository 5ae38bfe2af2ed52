// Package metrics provides Prometheus metrics collection for the analyzer.
//
// # Metrics Categories
//
//   - File Metrics: files analyzed by result, analysis duration, parse failures
//   - Rule Metrics: rule runs, violations and duration per rule id
//   - Fault Metrics: checker panics per rule id
//   - Exemption Metrics: exemption comments applied per rule id and state
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	eng := engine.New(cfg, rules, engine.WithObserver(collector))
//
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Naming
//
// Metric names follow namespace_subsystem_name, e.g.
// cohesion_analysis_files_total. Both prefixes come from MetricsConfig.
package metrics

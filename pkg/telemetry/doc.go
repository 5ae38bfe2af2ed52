// Package telemetry groups the analyzer's observability packages.
//
// # Components
//
//   - logging: slog-based structured logging with run, file and rule context
//   - metrics: Prometheus metrics for files, rules, faults and exemptions
//   - tracing: OpenTelemetry spans for runs, files, parses and rule runs
//   - health: liveness and readiness endpoints served by watch mode
//
// All of it is configured under the telemetry: key of .cohesion.yaml.
// Logging defaults to warn on stderr so report output on stdout stays clean.
package telemetry

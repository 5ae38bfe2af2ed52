package config

import "time"

// Config is the root configuration structure for cohesion.
type Config struct {
	// Rules configures which rules run and their thresholds.
	Rules RulesConfig `yaml:"rules"`

	// Engine configures the analysis pipeline.
	Engine EngineConfig `yaml:"engine"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch configures the watch command.
	Watch WatchConfig `yaml:"watch"`

	// History configures the run history database.
	History HistoryConfig `yaml:"history"`
}

// RulesConfig configures the rule set.
type RulesConfig struct {
	// Disabled lists rule ids that never run.
	Disabled []string `yaml:"disabled"`

	// Experimental lists opt-in experimental rule ids to enable.
	Experimental []string `yaml:"experimental"`

	// LineLength is the maximum characters per line.
	// Default: 120
	LineLength int `yaml:"line_length"`

	// MaxFileLines is the maximum number of lines per file.
	// Default: 400
	MaxFileLines int `yaml:"max_file_lines"`

	// MaxFunctionLines is the maximum number of lines per function.
	// Default: 50
	MaxFunctionLines int `yaml:"max_function_lines"`

	// MaxNestingDepth is the maximum control-flow nesting inside a function.
	// Default: 4
	MaxNestingDepth int `yaml:"max_nesting_depth"`

	// MaxParameters is the maximum number of function parameters.
	// Default: 4
	MaxParameters int `yaml:"max_parameters"`

	// RepeatedMemberThreshold is the number of distinct properties read from
	// the same base in one function before extraction is suggested.
	// Default: 3
	RepeatedMemberThreshold int `yaml:"repeated_member_threshold"`

	// IncludeGenerated runs rules on generated files too.
	// Default: false
	IncludeGenerated bool `yaml:"include_generated"`

	// IncludeTests runs rules on test files too.
	// Default: false
	IncludeTests bool `yaml:"include_tests"`
}

// EngineConfig configures the analysis pipeline.
type EngineConfig struct {
	// Workers is the number of files analyzed concurrently in batch mode.
	// Default: number of CPUs
	Workers int `yaml:"workers"`

	// IsolateFaults turns a panicking checker into a diagnostic violation
	// instead of aborting the file. Nil means true.
	IsolateFaults *bool `yaml:"isolate_faults"`

	// MaxSourceSize is the largest file accepted, in bytes.
	// Default: 5242880 (5MB)
	MaxSourceSize int `yaml:"max_source_size"`

	// Extensions lists the file extensions picked up when a directory is analyzed.
	// Default: [".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"]
	Extensions []string `yaml:"extensions"`

	// Ignore lists directory names skipped when walking directories.
	// Default: ["node_modules", ".git", "dist", "build", "coverage"]
	Ignore []string `yaml:"ignore"`
}

// FaultIsolation returns whether checker faults are isolated.
func (c EngineConfig) FaultIsolation() bool {
	return c.IsolateFaults == nil || *c.IsolateFaults
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint served in watch mode.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "cohesion"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "analysis"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for analysis duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp", "stdout"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector endpoint. Required for the otlp exporter.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "cohesion"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before re-analyzing.
	// Default: 300ms
	Debounce time.Duration `yaml:"debounce"`

	// RescanSchedule is a cron expression for full rescans, so deferrals
	// expire even when no file changes.
	// Default: "0 0 * * *" (midnight)
	RescanSchedule string `yaml:"rescan_schedule"`

	// MetricsAddr serves Prometheus metrics on this address when set.
	// Example: "127.0.0.1:9464"
	MetricsAddr string `yaml:"metrics_addr"`
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	// Enabled records every analyze run.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: ".cohesion/history.db"
	Path string `yaml:"path"`

	// RetentionDays deletes runs older than this many days. 0 keeps everything.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// BusyTimeout is how long SQLite waits for locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

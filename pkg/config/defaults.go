package config

import (
	"runtime"
	"time"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = ".cohesion.yaml"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultLineLength              = 120
	DefaultMaxFileLines            = 400
	DefaultMaxFunctionLines        = 50
	DefaultMaxNestingDepth         = 4
	DefaultMaxParameters           = 4
	DefaultRepeatedMemberThreshold = 3

	// Engine defaults
	DefaultMaxSourceSize = 5 * 1024 * 1024

	// Telemetry defaults
	DefaultLoggingLevel       = "warn"
	DefaultLoggingFormat      = "text"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "cohesion"
	DefaultMetricsSubsystem   = "analysis"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingService     = "cohesion"
	DefaultOTLPTimeout        = 10 * time.Second

	// Watch defaults
	DefaultWatchDebounce       = 300 * time.Millisecond
	DefaultWatchRescanSchedule = "0 0 * * *"

	// History defaults
	DefaultHistoryDriver        = "sqlite"
	DefaultHistoryPath          = ".cohesion/history.db"
	DefaultHistoryRetentionDays = 90
	DefaultHistoryBusyTimeout   = 5 * time.Second
)

var (
	// DefaultExtensions are the source extensions analyzed in directories.
	DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

	// DefaultIgnore are directory names never descended into.
	DefaultIgnore = []string{"node_modules", ".git", "dist", "build", "coverage"}

	// DefaultDurationBuckets are the analysis duration histogram buckets.
	DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	ApplyRulesDefaults(&cfg.Rules)

	// Engine defaults
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = runtime.NumCPU()
	}
	if cfg.Engine.MaxSourceSize == 0 {
		cfg.Engine.MaxSourceSize = DefaultMaxSourceSize
	}
	if len(cfg.Engine.Extensions) == 0 {
		cfg.Engine.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Engine.Ignore == nil {
		cfg.Engine.Ignore = append([]string(nil), DefaultIgnore...)
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Watch.RescanSchedule == "" {
		cfg.Watch.RescanSchedule = DefaultWatchRescanSchedule
	}

	// History defaults
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultHistoryRetentionDays
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}
}

// ApplyRulesDefaults fills zero rule thresholds with their defaults.
func ApplyRulesDefaults(cfg *RulesConfig) {
	if cfg.LineLength == 0 {
		cfg.LineLength = DefaultLineLength
	}
	if cfg.MaxFileLines == 0 {
		cfg.MaxFileLines = DefaultMaxFileLines
	}
	if cfg.MaxFunctionLines == 0 {
		cfg.MaxFunctionLines = DefaultMaxFunctionLines
	}
	if cfg.MaxNestingDepth == 0 {
		cfg.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if cfg.MaxParameters == 0 {
		cfg.MaxParameters = DefaultMaxParameters
	}
	if cfg.RepeatedMemberThreshold == 0 {
		cfg.RepeatedMemberThreshold = DefaultRepeatedMemberThreshold
	}
}

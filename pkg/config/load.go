package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention COHESION_SECTION_FIELD (e.g., COHESION_RULES_LINE_LENGTH).
// Environment variables always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// Discover loads path when given. With an empty path it loads
// DefaultConfigFile from the working directory if present, and otherwise
// starts from defaults. Environment overrides apply in every case.
func Discover(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	_, err := os.Stat(DefaultConfigFile)
	switch {
	case err == nil:
		return LoadConfigWithEnvOverrides(DefaultConfigFile)
	case errors.Is(err, fs.ErrNotExist):
		return finish(Default())
	default:
		return nil, fmt.Errorf("failed to stat configuration file %q: %w", DefaultConfigFile, err)
	}
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format COHESION_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Rules overrides
	envInt("COHESION_RULES_LINE_LENGTH", &cfg.Rules.LineLength)
	envInt("COHESION_RULES_MAX_FILE_LINES", &cfg.Rules.MaxFileLines)
	envInt("COHESION_RULES_MAX_FUNCTION_LINES", &cfg.Rules.MaxFunctionLines)
	envInt("COHESION_RULES_MAX_NESTING_DEPTH", &cfg.Rules.MaxNestingDepth)
	envInt("COHESION_RULES_MAX_PARAMETERS", &cfg.Rules.MaxParameters)
	envInt("COHESION_RULES_REPEATED_MEMBER_THRESHOLD", &cfg.Rules.RepeatedMemberThreshold)
	envList("COHESION_RULES_DISABLED", &cfg.Rules.Disabled)
	envList("COHESION_RULES_EXPERIMENTAL", &cfg.Rules.Experimental)
	envBool("COHESION_RULES_INCLUDE_GENERATED", &cfg.Rules.IncludeGenerated)
	envBool("COHESION_RULES_INCLUDE_TESTS", &cfg.Rules.IncludeTests)

	// Engine overrides
	envInt("COHESION_ENGINE_WORKERS", &cfg.Engine.Workers)
	envInt("COHESION_ENGINE_MAX_SOURCE_SIZE", &cfg.Engine.MaxSourceSize)
	if val := os.Getenv("COHESION_ENGINE_ISOLATE_FAULTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Engine.IsolateFaults = &b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("COHESION_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("COHESION_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	envBool("COHESION_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envBool("COHESION_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := os.Getenv("COHESION_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("COHESION_TELEMETRY_TRACING_EXPORTER"); val != "" {
		cfg.Telemetry.Tracing.Exporter = val
	}
	if val := os.Getenv("COHESION_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Watch overrides
	if val := os.Getenv("COHESION_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("COHESION_WATCH_RESCAN_SCHEDULE"); val != "" {
		cfg.Watch.RescanSchedule = val
	}
	if val := os.Getenv("COHESION_WATCH_METRICS_ADDR"); val != "" {
		cfg.Watch.MetricsAddr = val
	}

	// History overrides
	envBool("COHESION_HISTORY_ENABLED", &cfg.History.Enabled)
	if val := os.Getenv("COHESION_HISTORY_DRIVER"); val != "" {
		cfg.History.Driver = val
	}
	if val := os.Getenv("COHESION_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	envInt("COHESION_HISTORY_RETENTION_DAYS", &cfg.History.RetentionDays)
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// envList reads a comma-separated list.
func envList(key string, dst *[]string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

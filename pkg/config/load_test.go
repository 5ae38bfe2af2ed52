package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".cohesion.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
rules:
  line_length: 100
  disabled: [trailing-whitespace]
  experimental: [spread-props]

engine:
  workers: 3
  isolate_faults: false

telemetry:
  logging:
    level: "debug"
    format: "json"

watch:
  debounce: "1s"

history:
  enabled: true
  driver: "sqlite3"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Rules.LineLength != 100 {
		t.Errorf("expected line length 100, got %d", cfg.Rules.LineLength)
	}
	if len(cfg.Rules.Disabled) != 1 || cfg.Rules.Disabled[0] != "trailing-whitespace" {
		t.Errorf("unexpected disabled rules %v", cfg.Rules.Disabled)
	}
	if cfg.Engine.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Engine.Workers)
	}
	if cfg.Engine.FaultIsolation() {
		t.Error("expected fault isolation disabled")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.History.Driver != "sqlite3" {
		t.Errorf("expected driver sqlite3, got %q", cfg.History.Driver)
	}
	// Defaults fill the rest.
	if cfg.Rules.MaxFileLines != DefaultMaxFileLines {
		t.Errorf("expected default max file lines, got %d", cfg.Rules.MaxFileLines)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"invalid yaml", "rules: [unclosed", "failed to parse"},
		{"invalid value", "telemetry:\n  logging:\n    level: loud\n", "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("LoadConfig() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "rules:\n  line_length: 100\n")

	t.Setenv("COHESION_RULES_LINE_LENGTH", "90")
	t.Setenv("COHESION_RULES_DISABLED", "line-length, max-file-lines")
	t.Setenv("COHESION_ENGINE_ISOLATE_FAULTS", "false")
	t.Setenv("COHESION_WATCH_DEBOUNCE", "2s")
	t.Setenv("COHESION_TELEMETRY_LOGGING_LEVEL", "error")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Rules.LineLength != 90 {
		t.Errorf("expected env line length 90, got %d", cfg.Rules.LineLength)
	}
	if len(cfg.Rules.Disabled) != 2 || cfg.Rules.Disabled[1] != "max-file-lines" {
		t.Errorf("unexpected disabled rules %v", cfg.Rules.Disabled)
	}
	if cfg.Engine.FaultIsolation() {
		t.Error("expected env to disable fault isolation")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("expected level error, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("COHESION_HISTORY_DRIVER", "mysql")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("expected override validation error, got %v", err)
	}
}

func TestDiscover_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Discover("")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if cfg.Rules.LineLength != DefaultLineLength {
		t.Errorf("expected default line length, got %d", cfg.Rules.LineLength)
	}
}

func TestDiscover_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("rules:\n  max_parameters: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover("")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if cfg.Rules.MaxParameters != 6 {
		t.Errorf("expected max parameters 6, got %d", cfg.Rules.MaxParameters)
	}
}

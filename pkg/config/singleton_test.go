package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetSingleton() {
	globalConfig = nil
	initOnce = *new(sync.Once)
}

func TestInitialize(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	configPath := filepath.Join(t.TempDir(), "cohesion.yaml")
	if err := os.WriteFile(configPath, []byte("rules:\n  line_length: 88\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Initialize(configPath); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Rules.LineLength != 88 {
		t.Errorf("expected line length 88, got %d", cfg.Rules.LineLength)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	os.WriteFile(first, []byte("rules:\n  line_length: 100\n"), 0644)
	os.WriteFile(second, []byte("rules:\n  line_length: 80\n"), 0644)

	if err := Initialize(first); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}

	if got := GetConfig().Rules.LineLength; got != 100 {
		t.Errorf("expected first config to win, got line length %d", got)
	}
}

func TestReloadConfig(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	path := filepath.Join(t.TempDir(), "cohesion.yaml")
	os.WriteFile(path, []byte("rules:\n  line_length: 100\n"), 0644)
	if err := Initialize(path); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(path, []byte("rules:\n  line_length: 70\n"), 0644)
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if got := GetConfig().Rules.LineLength; got != 70 {
		t.Errorf("expected reloaded line length 70, got %d", got)
	}

	// An invalid file keeps the previous configuration.
	os.WriteFile(path, []byte("rules:\n  line_length: -5\n"), 0644)
	if err := ReloadConfig(path); err == nil {
		t.Error("expected error reloading invalid config")
	}
	if got := GetConfig().Rules.LineLength; got != 70 {
		t.Errorf("expected line length to stay 70, got %d", got)
	}
}

func TestSetConfig_MustGetConfig(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	defer func() {
		if recover() == nil {
			t.Error("expected MustGetConfig to panic before initialization")
		}
		SetConfig(Default())
		if MustGetConfig() == nil {
			t.Error("expected config after SetConfig")
		}
	}()
	MustGetConfig()
}

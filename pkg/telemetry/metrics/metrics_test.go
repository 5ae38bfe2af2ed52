package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/cohesion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "analysis",
	}
}

func TestNewCollector(t *testing.T) {
	t.Run("with registry", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		collector := NewCollector(testConfig(), registry)
		if collector.Registry() != registry {
			t.Error("collector did not keep the provided registry")
		}
	})

	t.Run("nil registry", func(t *testing.T) {
		collector := NewCollector(testConfig(), nil)
		if collector.Registry() == nil {
			t.Error("expected a registry to be created")
		}
	})

	t.Run("empty naming falls back to defaults", func(t *testing.T) {
		cfg := &config.MetricsConfig{Enabled: true}
		NewCollector(cfg, nil)
		if cfg.Namespace != config.DefaultMetricsNamespace {
			t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
		}
		if len(cfg.DurationBuckets) == 0 {
			t.Error("DurationBuckets not defaulted")
		}
	})
}

func TestCollector_FileAnalyzed(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.FileAnalyzed("a.ts", "compliant", 2*time.Millisecond, 0, 1)
	collector.FileAnalyzed("b.ts", "violations", 3*time.Millisecond, 4, 0)
	collector.FileAnalyzed("c.ts", "violations", time.Millisecond, 1, 2)

	fm := collector.fileMetrics
	if got := testutil.ToFloat64(fm.filesTotal.WithLabelValues("violations")); got != 2 {
		t.Errorf("files_total{result=violations} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(fm.filesTotal.WithLabelValues("compliant")); got != 1 {
		t.Errorf("files_total{result=compliant} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(fm.violationsTotal.WithLabelValues("error")); got != 5 {
		t.Errorf("violations_total{class=error} = %v, want 5", got)
	}
	if got := testutil.ToFloat64(fm.violationsTotal.WithLabelValues("warning")); got != 3 {
		t.Errorf("violations_total{class=warning} = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(fm.fileDuration); got != 1 {
		t.Errorf("file_duration_seconds series = %d, want 1", got)
	}
}

func TestCollector_RuleMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RuleCompleted("max-file-lines", time.Microsecond, 0)
	collector.RuleCompleted("max-file-lines", time.Microsecond, 2)
	collector.CheckerFault("no-nested-ternary")
	collector.ExemptionApplied("max-file-lines", "deferred")
	collector.ParseFailed("broken.ts")

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.runsTotal.WithLabelValues("max-file-lines")); got != 2 {
		t.Errorf("rule_runs_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.violationsTotal.WithLabelValues("max-file-lines")); got != 2 {
		t.Errorf("rule_violations_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.faultsTotal.WithLabelValues("no-nested-ternary")); got != 1 {
		t.Errorf("checker_faults_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.exemptionsTotal.WithLabelValues("max-file-lines", "deferred")); got != 1 {
		t.Errorf("exemptions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.fileMetrics.parseFailures); got != 1 {
		t.Errorf("parse_failures_total = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.FileAnalyzed("a.ts", "compliant", time.Millisecond, 0, 0)
	collector.RuleCompleted("max-file-lines", time.Microsecond, 3)
	collector.CheckerFault("max-file-lines")
	collector.ParseFailed("a.ts")

	if got := testutil.ToFloat64(collector.fileMetrics.filesTotal.WithLabelValues("compliant")); got != 0 {
		t.Errorf("files_total = %v, want 0 when disabled", got)
	}
	if got := testutil.ToFloat64(collector.ruleMetrics.faultsTotal.WithLabelValues("max-file-lines")); got != 0 {
		t.Errorf("checker_faults_total = %v, want 0 when disabled", got)
	}
	if got := testutil.ToFloat64(collector.fileMetrics.parseFailures); got != 0 {
		t.Errorf("parse_failures_total = %v, want 0 when disabled", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.FileAnalyzed("a.ts", "compliant", time.Millisecond, 0, 0)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "test_analysis_files_total") {
		t.Errorf("exposition missing files_total:\n%s", body)
	}
}

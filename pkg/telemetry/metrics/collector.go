package metrics

import (
	"time"

	"mercator-hq/cohesion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric of the analyzer. It implements the
// engine's Observer interface, so wiring it is a single engine option.
//
// A disabled collector records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	fileMetrics *FileMetrics
	ruleMetrics *RuleMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "cohesion",
//		Subsystem: "analysis",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:      cfg,
		registry:    registry,
		fileMetrics: NewFileMetrics(cfg, registry),
		ruleMetrics: NewRuleMetrics(cfg, registry),
	}
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// FileAnalyzed records the outcome of one file analysis.
// result is "compliant", "violations" or "error".
func (c *Collector) FileAnalyzed(path, result string, duration time.Duration, violations, warnings int) {
	if !c.config.Enabled {
		return
	}
	c.fileMetrics.Record(result, duration, violations, warnings)
}

// ParseFailed records a file whose source did not parse.
func (c *Collector) ParseFailed(path string) {
	if !c.config.Enabled {
		return
	}
	c.fileMetrics.parseFailures.Inc()
}

// RuleCompleted records one rule run on one file.
func (c *Collector) RuleCompleted(ruleID string, duration time.Duration, violations int) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.Record(ruleID, duration, violations)
}

// CheckerFault records a rule whose checker panicked.
func (c *Collector) CheckerFault(ruleID string) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.faultsTotal.WithLabelValues(ruleID).Inc()
}

// ExemptionApplied records an exemption comment that affected a rule run.
// state is the exemption state name ("exempt", "deferred", "expired", "malformed").
func (c *Collector) ExemptionApplied(ruleID, state string) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.exemptionsTotal.WithLabelValues(ruleID, state).Inc()
}

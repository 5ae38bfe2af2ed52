package metrics

import (
	"time"

	"mercator-hq/cohesion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks per-rule activity.
//
// Metrics:
//   - cohesion_analysis_rule_runs_total: Rule runs by rule id
//   - cohesion_analysis_rule_violations_total: Violations emitted by rule id
//   - cohesion_analysis_rule_duration_seconds: Time spent in one rule run
//   - cohesion_analysis_checker_faults_total: Checker panics by rule id
//   - cohesion_analysis_exemptions_total: Exemption comments applied by rule id and state
type RuleMetrics struct {
	runsTotal       *prometheus.CounterVec
	violationsTotal *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	faultsTotal     *prometheus.CounterVec
	exemptionsTotal *prometheus.CounterVec
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_runs_total",
				Help:      "Total number of rule runs",
			},
			[]string{"rule_id"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_violations_total",
				Help:      "Total number of violations emitted per rule",
			},
			[]string{"rule_id"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_duration_seconds",
				Help:      "Duration of one rule run in seconds",
				// Rule runs should be fast (< 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"rule_id"},
		),

		faultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checker_faults_total",
				Help:      "Total number of checker panics",
			},
			[]string{"rule_id"},
		),

		exemptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exemptions_total",
				Help:      "Total number of exemption comments applied",
			},
			[]string{"rule_id", "state"},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.violationsTotal,
		rm.duration,
		rm.faultsTotal,
		rm.exemptionsTotal,
	)

	return rm
}

// Record records one rule run.
func (rm *RuleMetrics) Record(ruleID string, duration time.Duration, violations int) {
	rm.runsTotal.WithLabelValues(ruleID).Inc()
	rm.duration.WithLabelValues(ruleID).Observe(duration.Seconds())
	if violations > 0 {
		rm.violationsTotal.WithLabelValues(ruleID).Add(float64(violations))
	}
}

package metrics

import (
	"time"

	"mercator-hq/cohesion/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// FileMetrics tracks per-file analysis outcomes.
//
// Metrics:
//   - cohesion_analysis_files_total: Files analyzed by result
//   - cohesion_analysis_file_duration_seconds: Time to analyze one file
//   - cohesion_analysis_violations_total: Violations reported, by class
//   - cohesion_analysis_parse_failures_total: Files that failed to parse
type FileMetrics struct {
	filesTotal      *prometheus.CounterVec
	fileDuration    prometheus.Histogram
	violationsTotal *prometheus.CounterVec
	parseFailures   prometheus.Counter
}

// NewFileMetrics creates and registers file metrics with the provided registry.
func NewFileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FileMetrics {
	fm := &FileMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of files analyzed",
			},
			[]string{"result"},
		),

		fileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_duration_seconds",
				Help:      "Duration of one file analysis in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of violations reported",
			},
			[]string{"class"},
		),

		parseFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_failures_total",
				Help:      "Total number of files that failed to parse",
			},
		),
	}

	registry.MustRegister(
		fm.filesTotal,
		fm.fileDuration,
		fm.violationsTotal,
		fm.parseFailures,
	)

	return fm
}

// Record records one analyzed file.
func (fm *FileMetrics) Record(result string, duration time.Duration, violations, warnings int) {
	fm.filesTotal.WithLabelValues(result).Inc()
	fm.fileDuration.Observe(duration.Seconds())
	if violations > 0 {
		fm.violationsTotal.WithLabelValues("error").Add(float64(violations))
	}
	if warnings > 0 {
		fm.violationsTotal.WithLabelValues("warning").Add(float64(warnings))
	}
}

package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/cohesion/pkg/config"
)

// runSpans records one analyze.run span with a file and a rule span under it
// and returns how many spans reached the exporter.
func runSpans(t *testing.T, cfg *config.TracingConfig) int {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(cfg, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}

	ctx, run := tracer.Start(context.Background(), SpanRun)
	fileCtx, file := tracer.Start(ctx, SpanFile)
	_, rule := tracer.Start(fileCtx, SpanRule)
	rule.End()
	file.End()
	run.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	return len(exporter.GetSpans())
}

func TestSampling(t *testing.T) {
	tests := []struct {
		name    string
		sampler string
		ratio   float64
		want    int
	}{
		{"default samples every run", "", 0, 3},
		{"always", SamplerAlways, 0, 3},
		{"never", SamplerNever, 1, 0},
		{"ratio 0 drops the run", SamplerRatio, 0, 0},
		{"ratio 1 keeps the whole run", SamplerRatio, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runSpans(t, &config.TracingConfig{
				Enabled:     true,
				Sampler:     tt.sampler,
				SampleRatio: tt.ratio,
				Exporter:    ExporterStdout,
			})
			if got != tt.want {
				t.Errorf("exported %d spans, want %d", got, tt.want)
			}
		})
	}
}

func TestSampling_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TracingConfig
	}{
		{"negative ratio", config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: -0.1, Exporter: ExporterStdout}},
		{"ratio above one", config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 1.5, Exporter: ExporterStdout}},
		{"unknown sampler", config.TracingConfig{Enabled: true, Sampler: "sometimes", Exporter: ExporterStdout}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&tt.cfg); err == nil {
				t.Error("New() accepted an invalid sampler configuration")
			}
		})
	}
}

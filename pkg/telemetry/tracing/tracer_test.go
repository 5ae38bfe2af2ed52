package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/cohesion/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{
		Enabled:     true,
		Sampler:     sampler,
		Exporter:    ExporterStdout,
		ServiceName: "test-service",
	}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "disabled tracing",
			config: &config.TracingConfig{
				Enabled:     false,
				ServiceName: "test-service",
			},
		},
		{
			name: "otlp exporter connects lazily",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Exporter:    ExporterOTLP,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				OTLP: config.OTLPConfig{
					Insecure: true,
					Timeout:  time.Second,
				},
			},
			wantEnabled: true,
		},
		{
			name: "stdout exporter",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  SamplerNever,
				Exporter: ExporterStdout,
			},
			wantEnabled: true,
		},
		{
			name: "unknown exporter",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  SamplerAlways,
				Exporter: "jaeger",
			},
			wantErr: true,
		},
		{
			name: "invalid sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Exporter: ExporterStdout,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer tracer.Shutdown(context.Background())
			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestCreateExporter_StdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := createExporter(&config.TracingConfig{Exporter: ExporterStdout}, &buf)
	if err != nil {
		t.Fatalf("createExporter() error = %v", err)
	}
	tracer, err := NewWithExporter(&config.TracingConfig{Sampler: SamplerAlways, Exporter: ExporterStdout}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}

	_, span := tracer.Start(context.Background(), SpanRun)
	span.End()
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte(SpanRun)) {
		t.Errorf("stdout exporter output missing span name:\n%s", buf.String())
	}
}

func TestTracer_SpanHierarchy(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	ctx, file := tracer.Start(context.Background(), SpanFile,
		trace.WithAttributes(FileAttributes("src/app.tsx", 42)...))
	_, rule := tracer.Start(ctx, SpanRule,
		trace.WithAttributes(RuleAttributes("max-file-lines", 1)...))
	SetExemptionState(rule, "deferred")
	rule.End()
	SetReportAttributes(file, 2, 1, false)
	file.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}
	ruleSpan, fileSpan := spans[0], spans[1]
	if ruleSpan.Parent.SpanID() != fileSpan.SpanContext.SpanID() {
		t.Error("rule span is not a child of the file span")
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range fileSpan.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs[AttrFilePath].AsString(); got != "src/app.tsx" {
		t.Errorf("%s = %q, want src/app.tsx", AttrFilePath, got)
	}
	if got := attrs[AttrViolations].AsInt64(); got != 2 {
		t.Errorf("%s = %d, want 2", AttrViolations, got)
	}
	if attrs[AttrCompliant].AsBool() {
		t.Errorf("%s = true, want false", AttrCompliant)
	}
}

func TestTracer_NeverSampler(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	ctx, span := tracer.Start(context.Background(), SpanRun)
	if TraceID(ctx) != "" && span.SpanContext().IsSampled() {
		t.Error("span sampled with never sampler")
	}
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("exported %d spans, want 0", n)
	}
}

func TestSetError(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	_, span := tracer.Start(context.Background(), SpanFile)
	SetError(span, nil)
	SetError(span, errors.New("read failed"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status.Code)
	}
	if len(got.Events) != 1 {
		t.Errorf("recorded %d events, want 1", len(got.Events))
	}
}

func TestNilAndNoopTracer(t *testing.T) {
	var nilTracer *Tracer
	for _, tracer := range []*Tracer{nilTracer, Noop()} {
		ctx, span := tracer.Start(context.Background(), SpanRun)
		span.End()
		if TraceID(ctx) != "" {
			t.Error("noop tracer produced a trace id")
		}
		if tracer.Enabled() {
			t.Error("Enabled() = true for noop tracer")
		}
		if err := tracer.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}
}

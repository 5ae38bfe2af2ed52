// Package tracing provides OpenTelemetry tracing for analysis runs.
//
// A run produces one analyze.run span with an analyze.file child per file.
// Each file span holds an analyze.parse span and one analyze.rule span per
// rule that executed. Rules skipped by an exemption still get a span tagged
// with cohesion.exemption.state.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.25
//	    exporter: otlp        # or stdout
//	    endpoint: localhost:4317
//	    otlp:
//	      insecure: true
//
// The stdout exporter writes pretty-printed spans to stderr.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanFile,
//		trace.WithAttributes(tracing.FileAttributes(path, len(src))...))
//	defer span.End()
package tracing

package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanRun   = "analyze.run"
	SpanFile  = "analyze.file"
	SpanParse = "analyze.parse"
	SpanRule  = "analyze.rule"
)

// Attribute keys use the "cohesion.*" namespace.
const (
	AttrFilePath       = "cohesion.file.path"
	AttrFileBytes      = "cohesion.file.bytes"
	AttrFileCount      = "cohesion.file.count"
	AttrRuleID         = "cohesion.rule.id"
	AttrRulePriority   = "cohesion.rule.priority"
	AttrExemptionState = "cohesion.exemption.state"
	AttrViolations     = "cohesion.violations"
	AttrWarnings       = "cohesion.warnings"
	AttrCompliant      = "cohesion.compliant"
	AttrParseFailed    = "cohesion.parse.failed"
	AttrParseDialect   = "cohesion.parse.dialect"
	AttrCheckerFault   = "cohesion.checker.fault"
	AttrErrorMessage   = "error.message"
)

// FileAttributes returns the attributes set on an analyze.file span at start.
func FileAttributes(path string, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrFilePath, path),
		attribute.Int(AttrFileBytes, size),
	}
}

// RuleAttributes returns the attributes set on an analyze.rule span at start.
func RuleAttributes(ruleID string, priority int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRuleID, ruleID),
		attribute.Int(AttrRulePriority, priority),
	}
}

// SetReportAttributes records a file's outcome on its span.
//
// Example:
//
//	SetReportAttributes(span, errs, warns, report.IsCompliant)
func SetReportAttributes(span trace.Span, violations, warnings int, compliant bool) {
	span.SetAttributes(
		attribute.Int(AttrViolations, violations),
		attribute.Int(AttrWarnings, warnings),
		attribute.Bool(AttrCompliant, compliant),
	)
}

// SetExemptionState records the exemption state that gated a rule run.
func SetExemptionState(span trace.Span, state string) {
	span.SetAttributes(attribute.String(AttrExemptionState, state))
}

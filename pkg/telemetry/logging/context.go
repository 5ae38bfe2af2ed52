package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the id of one analysis run.
	RunIDKey contextKey = "run_id"

	// FileKey is the context key for the file being analyzed.
	FileKey contextKey = "file"

	// RuleKey is the context key for the rule being run.
	RuleKey contextKey = "rule"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithFile adds a file path to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, FileKey, path)
}

// GetFile retrieves the file path from the context.
func GetFile(ctx context.Context) string {
	if path, ok := ctx.Value(FileKey).(string); ok {
		return path
	}
	return ""
}

// WithRule adds a rule id to the context.
func WithRule(ctx context.Context, ruleID string) context.Context {
	return context.WithValue(ctx, RuleKey, ruleID)
}

// GetRule retrieves the rule id from the context.
func GetRule(ctx context.Context) string {
	if ruleID, ok := ctx.Value(RuleKey).(string); ok {
		return ruleID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
func extractContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, slog.String(string(RunIDKey), runID))
	}
	if path := GetFile(ctx); path != "" {
		fields = append(fields, slog.String(string(FileKey), path))
	}
	if ruleID := GetRule(ctx); ruleID != "" {
		fields = append(fields, slog.String(string(RuleKey), ruleID))
	}
	return fields
}

// contextHandler adds the context fields to every record logged with a
// context, so plain *slog.Logger users get them too.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fields := extractContextFields(ctx); len(fields) > 0 {
		r.AddAttrs(fields...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

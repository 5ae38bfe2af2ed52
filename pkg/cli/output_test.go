package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mercator-hq/cohesion/pkg/lint"
)

func sampleReport() lint.Report {
	return lint.NewReport("src/user-card.tsx", []lint.Violation{
		{RuleID: "line-length", Line: 12, Column: 121, Priority: lint.PriorityFormatting, Message: "line is 150 characters (> 120)"},
		{RuleID: "loose-function-warning", Line: 1, Column: 1, Priority: lint.PriorityStructure, Message: "loose-function deferred"},
	})
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{"report", sampleReport(), true},
		{"error report", lint.NewErrorReport("missing.js", errors.New("no such file")), false},
		{"batch", []any{sampleReport(), lint.NewErrorReport("missing.js", errors.New("no such file"))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result any
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONFormatter_ReportContract(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).FormatTo(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if err := lint.ValidateReportJSON(buf.Bytes()); err != nil {
		t.Errorf("report JSON does not validate: %v", err)
	}
	if strings.Contains(buf.String(), `\u003e`) {
		t.Error("JSON output escapes HTML characters")
	}

	buf.Reset()
	report := lint.NewReport("src/a.js", []lint.Violation{
		{RuleID: "component-naming", Line: 1, Column: 1, Priority: lint.PriorityNaming, Message: `function "<anonymous>" a && b`},
	})
	if err := (&JSONFormatter{}).FormatTo(&buf, []any{report}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if want := `function \"<anonymous>\" a && b`; !strings.Contains(buf.String(), want) {
		t.Errorf("FormatTo() = %s, want message %s", buf.String(), want)
	}
}

func TestTextFormatter(t *testing.T) {
	output, err := (&TextFormatter{}).Format(sampleReport())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := string(output)
	for _, want := range []string{
		"src/user-card.tsx ✗ not compliant",
		"⚠ 1:1 [loose-function-warning] loose-function deferred",
		"✗ 12:121 [line-length] line is 150 characters (> 120)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// Warnings sort ahead by priority here.
	if strings.Index(got, "loose-function-warning") > strings.Index(got, "line-length") {
		t.Error("violations are not printed in report order")
	}
}

func TestTextFormatter_SourceContext(t *testing.T) {
	src := []byte("const a = 1;\nconst b = 2;\nconst c = 3;\n")
	report := lint.NewReport("src/values.js", []lint.Violation{
		{RuleID: "line-length", Line: 2, Column: 7, Priority: lint.PriorityFormatting, Message: "too long"},
		{RuleID: "max-file-lines-warning", Line: 1, Column: 1, Priority: lint.PriorityFormatting, Message: "deferred"},
	})

	var requested []string
	f := &TextFormatter{
		Source: func(path string) []byte {
			requested = append(requested, path)
			return src
		},
		ContextLines: 1,
	}
	output, err := f.Format(report)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := string(output)
	for _, want := range []string{
		"      -> 2 | const b = 2;",
		"         1 | const a = 1;",
		"         3 | const c = 3;",
		"     |       ^",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "->") != 1 {
		t.Errorf("warnings got an excerpt:\n%s", got)
	}
	if len(requested) != 1 || requested[0] != "src/values.js" {
		t.Errorf("Source called with %v", requested)
	}
}

func TestTextFormatter_NoSource(t *testing.T) {
	f := &TextFormatter{Source: func(string) []byte { return nil }}
	output, err := f.Format(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(output), " | ") {
		t.Errorf("excerpt printed without source:\n%s", output)
	}
}

func TestTextFormatter_Batch(t *testing.T) {
	data := []any{
		lint.NewReport("a.js", nil),
		sampleReport(),
		lint.NewErrorReport("missing.js", errors.New("no such file")),
	}

	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"a.js ✓ compliant",
		"missing.js\n  ✗ error: no such file",
		"3 file(s): 1 violation(s), 1 warning(s), 1 error(s)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTextFormatter_Fallback(t *testing.T) {
	output, err := (&TextFormatter{}).Format("plain message")
	if err != nil {
		t.Fatal(err)
	}
	if string(output) != "plain message\n" {
		t.Errorf("Format() = %q", output)
	}
}

func TestCSVFormatter(t *testing.T) {
	data := []any{sampleReport(), lint.NewErrorReport("missing.js", errors.New("no such file"))}

	output, err := (&CSVFormatter{}).Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != strings.Join(DefaultCSVHeaders, ",") {
		t.Errorf("header = %q", got)
	}
	if records[1][4] != "loose-function-warning" || records[1][3] != "1" {
		t.Errorf("first row = %v", records[1])
	}
	if records[3][4] != "error" {
		t.Errorf("error row = %v", records[3])
	}

	if _, err := (&CSVFormatter{}).Format(42); err == nil {
		t.Error("Format() accepted an unsupported value")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.JSONFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := fmt.Sprintf("%T", NewFormatter(tt.format, false))
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestColorEnabled(t *testing.T) {
	if ColorEnabled(&bytes.Buffer{}) {
		t.Error("ColorEnabled() = true for a buffer")
	}
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(nil) {
		t.Error("ColorEnabled() = true with NO_COLOR set")
	}
}

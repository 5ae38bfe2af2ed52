package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"mercator-hq/cohesion/pkg/lint"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatJSON is the report wire format (default).
	FormatJSON OutputFormat = "json"
	// FormatText is human-readable output, coloured on a terminal.
	FormatText OutputFormat = "text"
	// FormatCSV is one row per violation.
	FormatCSV OutputFormat = "csv"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatText), string(FormatCSV)}
}

// Formatter formats command output.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// SourceFunc returns the source of path, or nil when it is unavailable.
type SourceFunc func(path string) []byte

// ReadSource is a SourceFunc reading from disk.
func ReadSource(path string) []byte {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return src
}

// TextFormatter renders reports for people. Values that are not reports
// are printed with %v.
type TextFormatter struct {
	Color bool

	// Source, when set, adds a source excerpt under each violation.
	// Deferral warnings point at line 1 and get none.
	Source SourceFunc

	// ContextLines is the number of lines shown around the violating line.
	ContextLines int
}

type textStyles struct {
	path, ok, fail, warn, dim, rule lipgloss.Style
}

func (f *TextFormatter) styles() textStyles {
	if !f.Color {
		plain := lipgloss.NewStyle()
		return textStyles{plain, plain, plain, plain, plain, plain}
	}
	return textStyles{
		path: lipgloss.NewStyle().Bold(true),
		ok:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		warn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		rule: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	}
}

// Format converts data to text format.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	s := f.styles()
	switch v := data.(type) {
	case lint.Report:
		return f.writeReport(w, s, v)
	case lint.ErrorReport:
		_, err := fmt.Fprintf(w, "%s\n  %s %s\n", s.path.Render(v.FilePath), s.fail.Render("✗ error:"), v.Message)
		return err
	case []any:
		var errors, warnings, failed int
		for _, item := range v {
			if err := f.FormatTo(w, item); err != nil {
				return err
			}
			switch r := item.(type) {
			case lint.Report:
				e, wn := r.Counts()
				errors += e
				warnings += wn
			case lint.ErrorReport:
				failed++
			}
		}
		_, err := fmt.Fprintf(w, "\n%d file(s): %d violation(s), %d warning(s), %d error(s)\n",
			len(v), errors, warnings, failed)
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

func (f *TextFormatter) writeReport(w io.Writer, s textStyles, r lint.Report) error {
	status := s.ok.Render("✓ compliant")
	if !r.IsCompliant {
		status = s.fail.Render("✗ not compliant")
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", s.path.Render(r.FilePath), status); err != nil {
		return err
	}

	var src []byte
	if f.Source != nil && len(r.Violations) > 0 {
		src = f.Source(r.FilePath)
	}

	for _, v := range r.Violations {
		mark := s.fail.Render("✗")
		if v.IsWarning() {
			mark = s.warn.Render("⚠")
		}
		_, err := fmt.Fprintf(w, "  %s %s %s %s\n",
			mark,
			s.dim.Render(fmt.Sprintf("%d:%d", v.Line, v.Column)),
			s.rule.Render("["+v.RuleID+"]"),
			v.Message,
		)
		if err != nil {
			return err
		}
		if src != nil && !v.IsWarning() {
			if err := writeExcerpt(w, s, lint.ExtractContext(src, v.Line, v.Column, f.ContextLines)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeExcerpt(w io.Writer, s textStyles, excerpt string) error {
	for line := range strings.Lines(excerpt) {
		if _, err := fmt.Fprintf(w, "      %s\n", s.dim.Render(strings.TrimSuffix(line, "\n"))); err != nil {
			return err
		}
	}
	return nil
}

// CSVFormatter writes one row per violation. Error reports become a row
// with the rule column set to "error".
type CSVFormatter struct {
	Headers []string
}

// DefaultCSVHeaders are written when Headers is empty.
var DefaultCSVHeaders = []string{"file", "line", "column", "priority", "rule", "message"}

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	headers := f.Headers
	if len(headers) == 0 {
		headers = DefaultCSVHeaders
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(headers); err != nil {
		return err
	}
	if err := writeCSVRows(csvWriter, data); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeCSVRows(cw *csv.Writer, data any) error {
	switch v := data.(type) {
	case lint.Report:
		for _, vio := range v.Violations {
			row := []string{
				v.FilePath,
				strconv.Itoa(vio.Line),
				strconv.Itoa(vio.Column),
				strconv.Itoa(int(vio.Priority)),
				vio.RuleID,
				vio.Message,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	case lint.ErrorReport:
		return cw.Write([]string{v.FilePath, "", "", "", "error", v.Message})
	case []any:
		for _, item := range v {
			if err := writeCSVRows(cw, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("csv output does not support %T", data)
	}
	return nil
}

// NewFormatter creates a new formatter for the specified format.
// color only affects the text formatter.
func NewFormatter(format OutputFormat, color bool) Formatter {
	switch format {
	case FormatText:
		return &TextFormatter{Color: color}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &JSONFormatter{Indent: true}
	}
}

// ColorEnabled returns true if w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

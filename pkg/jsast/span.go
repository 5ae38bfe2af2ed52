package jsast

import "fmt"

// Span represents the source range of a node in the original file.
// Lines and columns are 1-based; columns count bytes.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// String returns a human-readable representation of the span.
// Format: "line:column-line:column"
func (s Span) String() string {
	if !s.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// IsValid returns true if the span has line information.
func (s Span) IsValid() bool {
	return s.StartLine > 0 && s.EndLine >= s.StartLine
}

// Lines returns the number of lines the span covers.
func (s Span) Lines() int {
	if !s.IsValid() {
		return 0
	}
	return s.EndLine - s.StartLine + 1
}

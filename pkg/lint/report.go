package lint

import (
	"cmp"
	"slices"
)

// Report is the result of analyzing one file.
type Report struct {
	FilePath    string      `json:"filePath"`
	Violations  []Violation `json:"violations"`
	IsCompliant bool        `json:"isCompliant"`
}

// NewReport sorts violations and derives compliance. The input slice is
// copied, not modified.
func NewReport(filePath string, violations []Violation) Report {
	sorted := slices.Clone(violations)
	Sort(sorted)
	if sorted == nil {
		sorted = []Violation{}
	}
	return Report{
		FilePath:    filePath,
		Violations:  sorted,
		IsCompliant: IsCompliant(sorted),
	}
}

// Sort orders violations by priority, then line. The sort is stable, so
// ties keep emission order.
func Sort(violations []Violation) {
	slices.SortStableFunc(violations, func(a, b Violation) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})
}

// IsCompliant returns true iff no violation is a non-warning.
func IsCompliant(violations []Violation) bool {
	for _, v := range violations {
		if !v.IsWarning() {
			return false
		}
	}
	return true
}

// Counts returns the number of blocking violations and warnings.
func (r Report) Counts() (errors, warnings int) {
	for _, v := range r.Violations {
		if v.IsWarning() {
			warnings++
		} else {
			errors++
		}
	}
	return errors, warnings
}

// MarshalJSON encodes the report, emitting an empty array rather than null
// when there are no violations.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	if r.Violations == nil {
		r.Violations = []Violation{}
	}
	return marshal(plain(r))
}

// ErrorReport is emitted instead of a Report when a file cannot be analyzed.
type ErrorReport struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	FilePath string `json:"filePath"`
}

// NewErrorReport creates an error report for filePath.
func NewErrorReport(filePath string, err error) ErrorReport {
	return ErrorReport{Error: true, Message: err.Error(), FilePath: filePath}
}

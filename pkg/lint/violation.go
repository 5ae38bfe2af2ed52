package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// WarningSuffix marks the rule id of a deferral warning.
const WarningSuffix = "-warning"

// Violation is one reported instance of a rule being broken.
// Violations are values; nothing mutates them after creation.
type Violation struct {
	RuleID   string
	Line     int
	Column   int
	Priority Priority
	Message  string
}

// IsWarning returns true if the violation is a deferral warning.
// Warnings never affect compliance.
func (v Violation) IsWarning() bool {
	return strings.HasSuffix(v.RuleID, WarningSuffix)
}

// WarningID returns the rule id used for the deferral warning of ruleID.
func WarningID(ruleID string) string {
	return ruleID + WarningSuffix
}

// String formats the violation as "line:column [rule] message".
func (v Violation) String() string {
	return fmt.Sprintf("%d:%d [%s] %s", v.Line, v.Column, v.RuleID, v.Message)
}

type violationJSON struct {
	RuleID    string `json:"ruleId"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Priority  int    `json:"priority"`
	Message   string `json:"message"`
	IsWarning bool   `json:"isWarning"`
}

// MarshalJSON encodes the violation in its wire shape, including the derived
// isWarning field.
func (v Violation) MarshalJSON() ([]byte, error) {
	return marshal(violationJSON{
		RuleID:    v.RuleID,
		Line:      v.Line,
		Column:    v.Column,
		Priority:  int(v.Priority),
		Message:   v.Message,
		IsWarning: v.IsWarning(),
	})
}

// marshal is json.Marshal without HTML escaping. Messages quote source
// text such as "<anonymous>" and "a && b", which must reach the wire as is.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes the wire shape. isWarning is ignored since it is
// derived from the rule id.
func (v *Violation) UnmarshalJSON(data []byte) error {
	var raw violationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Violation{
		RuleID:   raw.RuleID,
		Line:     raw.Line,
		Column:   raw.Column,
		Priority: Priority(raw.Priority),
		Message:  raw.Message,
	}
	return nil
}

// List accumulates the violations of a single rule.
type List struct {
	ruleID   string
	priority Priority
	items    []Violation
}

// NewList creates an empty list for the given rule.
func NewList(ruleID string, priority Priority) *List {
	return &List{ruleID: ruleID, priority: priority}
}

// Add appends a violation. Lines below 1 are clamped to 1.
func (l *List) Add(line, column int, message string) {
	l.items = append(l.items, Violation{
		RuleID:   l.ruleID,
		Line:     max(line, 1),
		Column:   max(column, 1),
		Priority: l.priority,
		Message:  message,
	})
}

// Addf appends a violation with a formatted message.
func (l *List) Addf(line, column int, format string, args ...any) {
	l.Add(line, column, fmt.Sprintf(format, args...))
}

// Count returns the number of violations.
func (l *List) Count() int {
	return len(l.items)
}

// Violations returns the accumulated violations, or nil when there are none.
func (l *List) Violations() []Violation {
	return l.items
}

package engine

import "time"

// Observer receives analysis events. *metrics.Collector implements it.
type Observer interface {
	FileAnalyzed(path, result string, duration time.Duration, violations, warnings int)
	ParseFailed(path string)
	RuleCompleted(ruleID string, duration time.Duration, violations int)
	CheckerFault(ruleID string)
	ExemptionApplied(ruleID, state string)
}

// File results reported to FileAnalyzed.
const (
	ResultCompliant  = "compliant"
	ResultViolations = "violations"
	ResultError      = "error"
)

type nopObserver struct{}

func (nopObserver) FileAnalyzed(string, string, time.Duration, int, int) {}
func (nopObserver) ParseFailed(string)                                   {}
func (nopObserver) RuleCompleted(string, time.Duration, int)             {}
func (nopObserver) CheckerFault(string)                                  {}
func (nopObserver) ExemptionApplied(string, string)                      {}

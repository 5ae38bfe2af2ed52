package exemption

import (
	"fmt"

	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// Apply gates the output of run by status. run is not called when the rule
// is exempt or deferred.
func Apply(status Status, ruleID string, priority lint.Priority, run func() []lint.Violation) []lint.Violation {
	switch status.State {
	case StateExempt:
		return nil
	case StateDeferred:
		return []lint.Violation{DeferralWarning(status, ruleID, priority)}
	case StateExpired:
		violations := run()
		out := make([]lint.Violation, len(violations))
		for i, v := range violations {
			v.Message = ExpiredAnnotation(status) + " " + v.Message
			out[i] = v
		}
		return out
	default:
		return run()
	}
}

// DeferralWarning is the single warning that replaces a deferred rule's
// violations.
func DeferralWarning(status Status, ruleID string, priority lint.Priority) lint.Violation {
	return lint.Violation{
		RuleID:   lint.WarningID(ruleID),
		Line:     1,
		Column:   1,
		Priority: priority,
		Message: fmt.Sprintf("%s deferred: %s (%d days remaining, expires %s)",
			ruleID, status.Reason, status.DaysRemaining, status.Expiry.Format(DateLayout)),
	}
}

// ExpiredAnnotation is the prefix added to violations of an expired deferral.
func ExpiredAnnotation(status Status) string {
	return fmt.Sprintf("[expired deferral %s: %s]", status.Expiry.Format(DateLayout), status.Reason)
}

// Gate wraps a checker so that every invocation re-scans its source text
// for the rule's exemption comment and gates the result.
func Gate(
	ruleID string,
	priority lint.Priority,
	check func(tree *jsast.Tree, src []byte, path string) []lint.Violation,
	clock Clock,
) func(tree *jsast.Tree, src []byte, path string) []lint.Violation {
	return func(tree *jsast.Tree, src []byte, path string) []lint.Violation {
		status := StatusOf(ruleID, src, clock)
		return Apply(status, ruleID, priority, func() []lint.Violation {
			return check(tree, src, path)
		})
	}
}

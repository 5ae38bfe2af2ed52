package exemption

import (
	"fmt"
	"time"
)

// State is the live exemption state of one rule in one file.
type State int

const (
	StateNone State = iota
	StateExempt
	StateDeferred
	StateExpired
	StateMalformed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateExempt:
		return "exempt"
	case StateDeferred:
		return "deferred"
	case StateExpired:
		return "expired"
	case StateMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is the exemption status of a rule, evaluated against a date.
type Status struct {
	State         State
	RuleID        string
	Reason        string
	Expiry        time.Time // zero unless the comment is a well-formed deferral
	DaysRemaining int       // meaningful for StateDeferred and StateExpired
	Comment       *Comment  // nil for StateNone
}

// Evaluate computes the status of a comment on the given day.
func Evaluate(c Comment, today time.Time) Status {
	s := Status{RuleID: c.RuleID, Reason: c.Reason, Comment: &c}
	switch {
	case c.Malformed():
		s.State = StateMalformed
	case !c.Deferred:
		s.State = StateExempt
	default:
		s.Expiry = c.Expiry
		s.DaysRemaining = DaysRemaining(c.Expiry, today)
		if s.DaysRemaining < 0 {
			s.State = StateExpired
		} else {
			s.State = StateDeferred
		}
	}
	return s
}

// DaysRemaining returns the whole calendar days from today until expiry.
// Only the dates matter: time of day and zone offsets are discarded, and
// today's date is read in its own location.
func DaysRemaining(expiry, today time.Time) int {
	ey, em, ed := expiry.Date()
	ty, tm, td := today.Date()
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t) / (24 * time.Hour))
}

// Description returns a one-line summary of the status.
func (s Status) Description() string {
	switch s.State {
	case StateExempt:
		return "exempt: " + s.Reason
	case StateDeferred:
		return fmt.Sprintf("deferred until %s (%d days remaining): %s", s.Expiry.Format(DateLayout), s.DaysRemaining, s.Reason)
	case StateExpired:
		return fmt.Sprintf("expired on %s (%d days ago): %s", s.Expiry.Format(DateLayout), -s.DaysRemaining, s.Reason)
	case StateMalformed:
		return "malformed: " + s.Comment.Detail
	default:
		return "none"
	}
}

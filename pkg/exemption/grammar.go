package exemption

import (
	"regexp"
	"strings"
	"time"
)

const (
	// PermanentMarker starts a permanent exemption.
	PermanentMarker = "COMPLEXITY:"
	// DeferredMarker starts a time-boxed deferral.
	DeferredMarker = "COMPLEXITY-TODO:"
	// Separator divides the rule id from the reason.
	Separator = "—"
	// DateLayout is the expiry date format.
	DateLayout = "2006-01-02"
)

// Malformation names the grammar defect of a comment.
type Malformation string

const (
	MissingRule   Malformation = "missing-rule"
	MissingReason Malformation = "missing-reason"
	MissingExpiry Malformation = "missing-expiry"
	InvalidDate   Malformation = "invalid-date"
)

var (
	expiryPattern    = regexp.MustCompile(`\(\s*expires\b([^)]*)\)\s*$`)
	dateShapePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ruleIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Comment is one structured comment found in source text.
type Comment struct {
	Line     int    // 1-based line of the comment
	RuleID   string // empty when MissingRule
	Deferred bool   // COMPLEXITY-TODO form
	Reason   string
	Expiry   time.Time // UTC midnight; zero for permanent exemptions

	Malformation Malformation // empty when well formed
	Detail       string       // human-readable description of the defect
	Suggestion   string       // optional fix hint
}

// Malformed returns true if the comment failed grammar validation.
func (c Comment) Malformed() bool {
	return c.Malformation != ""
}

// Marker returns the comment's marker.
func (c Comment) Marker() string {
	if c.Deferred {
		return DeferredMarker
	}
	return PermanentMarker
}

// ParseLine recognizes a structured comment on one line of source.
// ok is false when the line carries no marker. A line with a marker always
// yields a Comment, malformed or not.
func ParseLine(line string) (c Comment, ok bool) {
	body, ok := commentBody(line)
	if !ok {
		return Comment{}, false
	}

	var rest string
	switch {
	case strings.HasPrefix(body, DeferredMarker):
		c.Deferred = true
		rest = body[len(DeferredMarker):]
	case strings.HasPrefix(body, PermanentMarker):
		rest = body[len(PermanentMarker):]
	default:
		return Comment{}, false
	}
	rest = strings.TrimSpace(rest)

	head, tail, hasSeparator := strings.Cut(rest, Separator)
	if !hasSeparator {
		head, tail, _ = strings.Cut(rest, " ")
	}
	c.RuleID = strings.TrimSpace(head)
	tail = strings.TrimSpace(tail)

	if c.RuleID == "" || !ruleIDPattern.MatchString(c.RuleID) {
		c.RuleID = ""
		c.Malformation = MissingRule
		c.Detail = c.Marker() + " requires a rule id"
		return c, true
	}

	if !hasSeparator {
		// The reason may still exist behind the wrong dash.
		c.Malformation = MissingReason
		c.Detail = c.Marker() + " requires a reason"
		if strings.HasPrefix(tail, "-") || strings.HasPrefix(tail, "–") {
			c.Suggestion = "separate the rule id and reason with an em-dash (" + Separator + ")"
		}
		return c, true
	}

	if !c.Deferred {
		c.Reason = tail
		if c.Reason == "" {
			c.Malformation = MissingReason
			c.Detail = PermanentMarker + " requires a reason"
		}
		return c, true
	}

	parseDeferral(&c, tail)
	return c, true
}

// parseDeferral fills reason and expiry from "<reason> (expires YYYY-MM-DD)".
func parseDeferral(c *Comment, tail string) {
	loc := expiryPattern.FindStringSubmatchIndex(tail)
	if loc == nil {
		c.Reason = tail
	} else {
		c.Reason = strings.TrimSpace(tail[:loc[0]])
	}

	if c.Reason == "" {
		c.Malformation = MissingReason
		c.Detail = DeferredMarker + " requires a reason"
		return
	}
	if loc == nil {
		c.Malformation = MissingExpiry
		c.Detail = DeferredMarker + " requires expiration date"
		c.Suggestion = "append (expires YYYY-MM-DD)"
		return
	}

	date := strings.TrimSpace(tail[loc[2]:loc[3]])
	if date == "" {
		c.Malformation = MissingExpiry
		c.Detail = DeferredMarker + " requires expiration date"
		c.Suggestion = "append (expires YYYY-MM-DD)"
		return
	}
	if !dateShapePattern.MatchString(date) {
		c.Malformation = InvalidDate
		c.Detail = "invalid date " + quote(date) + ", want YYYY-MM-DD"
		return
	}
	expiry, err := time.Parse(DateLayout, date)
	if err != nil {
		c.Malformation = InvalidDate
		c.Detail = "invalid date " + quote(date) + ", not a calendar date"
		return
	}
	c.Expiry = expiry
}

// commentBody strips comment delimiters from a trimmed line.
func commentBody(line string) (string, bool) {
	s := strings.TrimSpace(line)
	// JSX comments: {/* ... */}
	if strings.HasPrefix(s, "{/*") && strings.HasSuffix(s, "*/}") {
		s = s[1 : len(s)-1]
	}
	switch {
	case strings.HasPrefix(s, "//"):
		s = strings.TrimPrefix(s, "//")
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/*"), "*/")
		s = strings.TrimPrefix(s, "*")
	case strings.HasPrefix(s, "*") && !strings.HasPrefix(s, "*/"):
		s = strings.TrimPrefix(s, "*")
	default:
		return "", false
	}
	return strings.TrimSpace(s), true
}

func quote(s string) string {
	return "\"" + s + "\""
}

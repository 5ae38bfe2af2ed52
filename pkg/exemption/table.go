package exemption

import (
	"bufio"
	"bytes"
	"strings"
	"time"
)

// Table holds every structured comment of one source file.
// It is pure data derived from the text and safe for concurrent reads.
type Table struct {
	comments []Comment
	first    map[string]int // rule id -> index of its first comment
}

// Scan parses every line of src for structured comments.
func Scan(src []byte) *Table {
	t := &Table{first: make(map[string]int)}
	if !bytes.Contains(src, []byte("COMPLEXITY")) {
		return t
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !strings.Contains(text, "COMPLEXITY") {
			continue
		}
		c, ok := ParseLine(text)
		if !ok {
			continue
		}
		c.Line = line
		if _, seen := t.first[c.RuleID]; !seen && c.RuleID != "" {
			t.first[c.RuleID] = len(t.comments)
		}
		t.comments = append(t.comments, c)
	}
	return t
}

// Comments returns every structured comment in document order, including
// malformed ones and later duplicates that do not apply.
func (t *Table) Comments() []Comment {
	return t.comments
}

// Lookup returns the comment that applies to ruleID: the first one naming it.
func (t *Table) Lookup(ruleID string) (Comment, bool) {
	i, ok := t.first[ruleID]
	if !ok {
		return Comment{}, false
	}
	return t.comments[i], true
}

// Applies returns true if c is the comment in effect for its rule.
func (t *Table) Applies(c Comment) bool {
	first, ok := t.Lookup(c.RuleID)
	return ok && first.Line == c.Line
}

// Status returns the exemption status of ruleID on the given day.
func (t *Table) Status(ruleID string, today time.Time) Status {
	c, ok := t.Lookup(ruleID)
	if !ok {
		return Status{State: StateNone, RuleID: ruleID}
	}
	return Evaluate(c, today)
}

// StatusOf scans src and returns the status of ruleID in one step.
func StatusOf(ruleID string, src []byte, clock Clock) Status {
	return Scan(src).Status(ruleID, clock.Today())
}

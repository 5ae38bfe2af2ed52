package exemption

import (
	"strings"
	"testing"

	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// longLines reports every line longer than 20 characters.
func longLines(_ *jsast.Tree, src []byte, _ string) []lint.Violation {
	list := lint.NewList("line-length", lint.PriorityFormatting)
	for i, line := range strings.Split(string(src), "\n") {
		if len(line) > 20 && !strings.Contains(line, "COMPLEXITY") {
			list.Addf(i+1, 21, "line is %d characters", len(line))
		}
	}
	return list.Violations()
}

func TestGate(t *testing.T) {
	long := strings.Repeat("x", 30)
	check := Gate("line-length", lint.PriorityFormatting, longLines, today)

	tests := []struct {
		name          string
		header        string
		wantRule      string
		wantCount     int
		wantCompliant bool
		wantInMessage string
	}{
		{
			name:      "no comment",
			wantRule:  "line-length",
			wantCount: 1,
		},
		{
			name:          "exempt",
			header:        "// COMPLEXITY: line-length — table literal\n",
			wantCount:     0,
			wantCompliant: true,
		},
		{
			name:          "deferred",
			header:        "// COMPLEXITY-TODO: line-length — will fix (expires 2099-01-01)\n",
			wantRule:      "line-length-warning",
			wantCount:     1,
			wantCompliant: true,
			wantInMessage: "will fix",
		},
		{
			name:          "expired",
			header:        "// COMPLEXITY-TODO: line-length — will fix (expires 2000-01-01)\n",
			wantRule:      "line-length",
			wantCount:     1,
			wantInMessage: "[expired deferral 2000-01-01: will fix]",
		},
		{
			name:      "malformed",
			header:    "// COMPLEXITY-TODO: line-length — will fix\n",
			wantRule:  "line-length",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := check(nil, []byte(tt.header+long+"\n"), "table.ts")
			if len(got) != tt.wantCount {
				t.Fatalf("violations = %d, want %d: %v", len(got), tt.wantCount, got)
			}
			if lint.IsCompliant(got) != tt.wantCompliant {
				t.Errorf("IsCompliant = %v, want %v", lint.IsCompliant(got), tt.wantCompliant)
			}
			if tt.wantCount == 0 {
				return
			}
			if got[0].RuleID != tt.wantRule {
				t.Errorf("RuleID = %q, want %q", got[0].RuleID, tt.wantRule)
			}
			if !strings.Contains(got[0].Message, tt.wantInMessage) {
				t.Errorf("Message = %q, want it to contain %q", got[0].Message, tt.wantInMessage)
			}
		})
	}
}

func TestDeferralWarning(t *testing.T) {
	src := []byte("// COMPLEXITY-TODO: max-parameters — api shim (expires 2026-06-25)\n")
	status := StatusOf("max-parameters", src, today)

	w := DeferralWarning(status, "max-parameters", lint.PriorityExtraction)
	if !w.IsWarning() || w.Line != 1 || w.Column != 1 || w.Priority != lint.PriorityExtraction {
		t.Errorf("DeferralWarning() = %+v", w)
	}
	if !strings.Contains(w.Message, "api shim") || !strings.Contains(w.Message, "10 days remaining") {
		t.Errorf("Message = %q", w.Message)
	}
}

func TestApply_DoesNotRunExemptRule(t *testing.T) {
	ran := false
	run := func() []lint.Violation {
		ran = true
		return nil
	}

	Apply(Status{State: StateExempt}, "r", 1, run)
	Apply(Status{State: StateDeferred}, "r", 1, run)
	if ran {
		t.Error("Apply() ran an exempt or deferred rule")
	}

	Apply(Status{State: StateMalformed}, "r", 1, run)
	if !ran {
		t.Error("Apply() skipped a rule with a malformed exemption")
	}
}

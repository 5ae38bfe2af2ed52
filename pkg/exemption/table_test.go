package exemption

import (
	"strings"
	"testing"
)

var today = Date(2026, 6, 15)

func TestTable_Status(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantState State
		wantDays  int
	}{
		{"none", "const a = 1;\n", StateNone, 0},
		{"exempt", "// COMPLEXITY: line-length — table literal\n", StateExempt, 0},
		{"deferred", "// COMPLEXITY-TODO: line-length — later (expires 2026-06-20)\n", StateDeferred, 5},
		{"expires today", "// COMPLEXITY-TODO: line-length — later (expires 2026-06-15)\n", StateDeferred, 0},
		{"expired", "// COMPLEXITY-TODO: line-length — later (expires 2026-06-14)\n", StateExpired, -1},
		{"malformed", "// COMPLEXITY-TODO: line-length — later\n", StateMalformed, 0},
		{"other rule", "// COMPLEXITY: max-parameters — api\n", StateNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Scan([]byte(tt.src)).Status("line-length", today.Today())
			if status.State != tt.wantState {
				t.Errorf("State = %s, want %s", status.State, tt.wantState)
			}
			if status.DaysRemaining != tt.wantDays {
				t.Errorf("DaysRemaining = %d, want %d", status.DaysRemaining, tt.wantDays)
			}
		})
	}
}

// The first comment for a rule applies, even when a later one is valid.
func TestTable_FirstCommentWins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want State
	}{
		{
			name: "exempt then deferred",
			src:  "// COMPLEXITY: line-length — a\n// COMPLEXITY-TODO: line-length — b (expires 2099-01-01)\n",
			want: StateExempt,
		},
		{
			name: "malformed then exempt",
			src:  "// COMPLEXITY: line-length\n// COMPLEXITY: line-length — valid\n",
			want: StateMalformed,
		},
		{
			name: "expired then exempt",
			src:  "// COMPLEXITY-TODO: line-length — a (expires 2000-01-01)\n// COMPLEXITY: line-length — b\n",
			want: StateExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Scan([]byte(tt.src))
			if got := table.Status("line-length", today.Today()).State; got != tt.want {
				t.Errorf("State = %s, want %s", got, tt.want)
			}
			comments := table.Comments()
			if len(comments) != 2 {
				t.Fatalf("Comments() = %d, want 2", len(comments))
			}
			if !table.Applies(comments[0]) || table.Applies(comments[1]) {
				t.Error("Applies() does not select the first comment")
			}
		})
	}
}

func TestTable_CommentLines(t *testing.T) {
	src := strings.Join([]string{
		"import x from 'x';",
		"",
		"// COMPLEXITY: max-parameters — mirrors fetch",
		"/* COMPLEXITY-TODO: nested-ternary — refactor (expires 2026-07-01) */",
	}, "\n")

	comments := Scan([]byte(src)).Comments()
	if len(comments) != 2 {
		t.Fatalf("Comments() = %d, want 2", len(comments))
	}
	if comments[0].Line != 3 || comments[1].Line != 4 {
		t.Errorf("lines = %d, %d, want 3, 4", comments[0].Line, comments[1].Line)
	}
}

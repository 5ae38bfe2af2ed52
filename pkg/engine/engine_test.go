package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/exemption"
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
	"mercator-hq/cohesion/pkg/rules"
)

var today = exemption.Date(2025, 6, 1)

// longLine is 150 characters of valid code.
var longLine = `const label = "` + strings.Repeat("x", 133) + `";`

func newTestEngine(t *testing.T, cfg config.EngineConfig, rs []rules.Rule, opts ...Option) *Engine {
	t.Helper()
	if rs == nil {
		var err error
		rs, err = rules.Registry(config.RulesConfig{LineLength: 120})
		if err != nil {
			t.Fatalf("Registry() error = %v", err)
		}
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(today),
	}
	return New(cfg, rs, append(base, opts...)...)
}

func analyze(t *testing.T, e *Engine, path, src string) lint.Report {
	t.Helper()
	report, err := e.AnalyzeSource(context.Background(), path, []byte(src))
	if err != nil {
		t.Fatalf("AnalyzeSource() error = %v", err)
	}
	return report
}

func byRule(report lint.Report, id string) []lint.Violation {
	var out []lint.Violation
	for _, v := range report.Violations {
		if v.RuleID == id {
			out = append(out, v)
		}
	}
	return out
}

func TestAnalyze_Scenarios(t *testing.T) {
	e := newTestEngine(t, config.EngineConfig{}, nil)

	t.Run("200 short statements", func(t *testing.T) {
		src := strings.Repeat("let x = 1\nlet y = 2\n", 100)
		report := analyze(t, e, "counters.js", src)
		if len(report.Violations) != 0 {
			t.Errorf("violations = %v, want none", report.Violations)
		}
		if !report.IsCompliant {
			t.Error("IsCompliant = false, want true")
		}
	})

	t.Run("one long line", func(t *testing.T) {
		report := analyze(t, e, "label.js", longLine+"\n")
		got := byRule(report, rules.IDLineLength)
		if len(got) != 1 || got[0].Line != 1 {
			t.Fatalf("line-length violations = %v, want one on line 1", got)
		}
		if report.IsCompliant {
			t.Error("IsCompliant = true, want false")
		}
	})

	t.Run("exempt long line", func(t *testing.T) {
		src := "// COMPLEXITY: line-length — intentionally long for a table literal\n" + longLine + "\n"
		report := analyze(t, e, "label.js", src)
		if got := byRule(report, rules.IDLineLength); len(got) != 0 {
			t.Errorf("line-length violations = %v, want none", got)
		}
	})

	t.Run("deferred long line", func(t *testing.T) {
		src := "// COMPLEXITY-TODO: line-length — will fix (expires 2099-01-01)\n" + longLine + "\n"
		report := analyze(t, e, "label.js", src)
		if got := byRule(report, rules.IDLineLength); len(got) != 0 {
			t.Errorf("line-length violations = %v, want none", got)
		}
		warnings := byRule(report, lint.WarningID(rules.IDLineLength))
		if len(warnings) != 1 || !warnings[0].IsWarning() {
			t.Fatalf("warnings = %v, want exactly one", warnings)
		}
		if !report.IsCompliant {
			t.Errorf("IsCompliant = false, want true; violations = %v", report.Violations)
		}
	})

	t.Run("expired deferral", func(t *testing.T) {
		src := "// COMPLEXITY-TODO: line-length — will fix (expires 2000-01-01)\n" + longLine + "\n"
		report := analyze(t, e, "label.js", src)
		got := byRule(report, rules.IDLineLength)
		if len(got) != 1 {
			t.Fatalf("line-length violations = %v, want one", got)
		}
		if !strings.Contains(got[0].Message, "expired") {
			t.Errorf("message = %q, want expired annotation", got[0].Message)
		}
		if report.IsCompliant {
			t.Error("IsCompliant = true, want false")
		}
	})

	t.Run("repeated member chain", func(t *testing.T) {
		src := "function render(state) {\n  return [state.config.value, state.config.flag, state.config.label];\n}\n"
		report := analyze(t, e, "render.js", src)
		got := byRule(report, rules.IDRepeatedMemberChain)
		if len(got) != 1 {
			t.Fatalf("repeated-member-chain violations = %v, want one", got)
		}
		msg := got[0].Message
		for _, want := range []string{"state.config", "value, flag, label"} {
			if !strings.Contains(msg, want) {
				t.Errorf("message = %q, want it to mention %q", msg, want)
			}
		}
	})
}

func TestAnalyze_Deterministic(t *testing.T) {
	e := newTestEngine(t, config.EngineConfig{}, nil)
	src := "const helpers = { a: () => 1 };\nfunction add(a, b) { return a + b; }   \n" + longLine + "\nexport default add;\nexport const b = 2;\n"

	first, err := json.Marshal(analyze(t, e, "Helpers.js", src))
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := json.Marshal(analyze(t, e, "Helpers.js", src))
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("report changed between runs:\n%s\n%s", first, again)
		}
	}
	if err := lint.ValidateReportJSON(first); err != nil {
		t.Errorf("report does not match schema: %v", err)
	}
}

func TestAnalyze_Ordering(t *testing.T) {
	emit := func(id string, prio lint.Priority, line int) rules.Rule {
		return rules.Rule{ID: id, Priority: prio, Check: func(*jsast.Tree, []byte, string) []lint.Violation {
			return []lint.Violation{{RuleID: id, Line: line, Column: 1, Priority: prio, Message: id}}
		}}
	}
	rs := []rules.Rule{
		emit("late-format", lint.PriorityFormatting, 1),
		emit("structure-b", lint.PriorityStructure, 9),
		emit("structure-a", lint.PriorityStructure, 3),
		emit("structure-tie", lint.PriorityStructure, 3),
	}
	report := analyze(t, newTestEngine(t, config.EngineConfig{}, rs), "a.js", "let a = 1;\n")

	var got []string
	for _, v := range report.Violations {
		got = append(got, v.RuleID)
	}
	want := []string{"structure-a", "structure-tie", "structure-b", "late-format"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAnalyze_ParseFailure(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, config.EngineConfig{}, nil, WithObserver(obs))

	src := "function (\n" + longLine + "\n"
	report := analyze(t, e, "broken.js", src)

	if got := byRule(report, rules.IDLineLength); len(got) != 1 {
		t.Errorf("line-length violations = %v, want one", got)
	}
	for _, v := range report.Violations {
		if v.RuleID == rules.IDLooseFunction || v.RuleID == rules.IDMixedExports {
			t.Errorf("tree rule %s ran without a tree", v.RuleID)
		}
	}
	if obs.parseFailures != 1 {
		t.Errorf("ParseFailed calls = %d, want 1", obs.parseFailures)
	}
}

func TestAnalyze_TypeScriptDialect(t *testing.T) {
	src := "export function helper(y: unknown) {\n  return <number>y;\n}\n"

	tests := []struct {
		path          string
		parseFailures int
		wantLoose     bool
	}{
		{"util.ts", 0, true},
		{"util.mts", 0, true},
		{"util.tsx", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			obs := &recordingObserver{}
			e := newTestEngine(t, config.EngineConfig{}, nil, WithObserver(obs))

			report := analyze(t, e, tt.path, src)
			if obs.parseFailures != tt.parseFailures {
				t.Errorf("ParseFailed calls = %d, want %d", obs.parseFailures, tt.parseFailures)
			}
			if got := len(byRule(report, rules.IDLooseFunction)) == 1; got != tt.wantLoose {
				t.Errorf("loose-function reported = %v, want %v (violations %v)", got, tt.wantLoose, report.Violations)
			}
		})
	}
}

func TestAnalyze_CheckerFault(t *testing.T) {
	panicking := rules.Rule{
		ID:       "exploding",
		Priority: lint.PriorityNaming,
		Check: func(*jsast.Tree, []byte, string) []lint.Violation {
			panic("unexpected node shape")
		},
	}
	healthy, err := rules.Registry(config.RulesConfig{})
	if err != nil {
		t.Fatal(err)
	}
	rs := append([]rules.Rule{panicking}, healthy...)

	t.Run("isolated", func(t *testing.T) {
		obs := &recordingObserver{}
		e := newTestEngine(t, config.EngineConfig{}, rs, WithObserver(obs))
		report := analyze(t, e, "label.js", longLine+"\n")

		faults := byRule(report, "exploding")
		if len(faults) != 1 {
			t.Fatalf("fault violations = %v, want one", faults)
		}
		if faults[0].Priority != lint.PriorityDiagnostic {
			t.Errorf("Priority = %v, want %v", faults[0].Priority, lint.PriorityDiagnostic)
		}
		if !strings.HasPrefix(faults[0].Message, FaultMessagePrefix) {
			t.Errorf("Message = %q", faults[0].Message)
		}
		if report.Violations[0].RuleID != "exploding" {
			t.Errorf("fault is not sorted first: %v", report.Violations[0])
		}
		if got := byRule(report, rules.IDLineLength); len(got) != 1 {
			t.Errorf("other rules did not run: %v", report.Violations)
		}
		if obs.faults != 1 {
			t.Errorf("CheckerFault calls = %d, want 1", obs.faults)
		}
	})

	t.Run("legacy abort", func(t *testing.T) {
		isolate := false
		e := newTestEngine(t, config.EngineConfig{IsolateFaults: &isolate}, rs)
		_, err := e.AnalyzeSource(context.Background(), "label.js", []byte(longLine+"\n"))

		var fault *CheckerFaultError
		if !errors.As(err, &fault) {
			t.Fatalf("error = %v, want *CheckerFaultError", err)
		}
		if fault.RuleID != "exploding" || len(fault.Stack) == 0 {
			t.Errorf("fault = %+v", fault)
		}
	})

	t.Run("exempt rule is not run", func(t *testing.T) {
		e := newTestEngine(t, config.EngineConfig{}, rs)
		report := analyze(t, e, "label.js", "// COMPLEXITY: exploding — known crash\nlet a = 1;\n")
		if got := byRule(report, "exploding"); len(got) != 0 {
			t.Errorf("exempt faulting rule reported %v", got)
		}
	})
}

func TestAnalyze_RescanMatchesTable(t *testing.T) {
	sources := []string{
		longLine + "\n",
		"// COMPLEXITY: line-length — table\n" + longLine + "\n",
		"// COMPLEXITY-TODO: line-length — later (expires 2099-01-01)\n" + longLine + "\n",
		"// COMPLEXITY-TODO: line-length — later (expires 2000-01-01)\n" + longLine + "\n",
		"// COMPLEXITY-TODO: line-length — later (expires 2099-02-30)\n" + longLine + "\n",
		"// COMPLEXITY: loose-function — legacy\nfunction add(a, b) { return a + b; }\n",
	}

	table := newTestEngine(t, config.EngineConfig{}, nil)
	rescan := newTestEngine(t, config.EngineConfig{}, nil, WithPerRuleRescan())

	for _, src := range sources {
		a := analyze(t, table, "label.js", src)
		b := analyze(t, rescan, "label.js", src)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("reports differ for %q:\ntable:  %v\nrescan: %v", src[:30], a.Violations, b.Violations)
		}
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, config.EngineConfig{}, nil)
	if _, err := e.AnalyzeSource(ctx, "a.js", []byte("let a = 1;\n")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAnalyze_SourceTooLarge(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, config.EngineConfig{MaxSourceSize: 8}, nil, WithObserver(obs))

	_, err := e.AnalyzeSource(context.Background(), "a.js", []byte("let a = 1;\nlet b = 2;\n"))
	var readErr *ReadError
	if !errors.As(err, &readErr) || !errors.Is(err, jsast.ErrSourceTooLarge) {
		t.Errorf("error = %v, want *ReadError wrapping ErrSourceTooLarge", err)
	}
	if obs.results[ResultError] != 1 {
		t.Errorf("error results = %d, want 1", obs.results[ResultError])
	}
}

type recordingObserver struct {
	mu            sync.Mutex
	results       map[string]int
	parseFailures int
	faults        int
	exemptions    map[string]string
	ruleRuns      int
}

func (o *recordingObserver) FileAnalyzed(_, result string, _ time.Duration, _, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.results == nil {
		o.results = make(map[string]int)
	}
	o.results[result]++
}

func (o *recordingObserver) ParseFailed(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.parseFailures++
}

func (o *recordingObserver) RuleCompleted(string, time.Duration, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ruleRuns++
}

func (o *recordingObserver) CheckerFault(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.faults++
}

func (o *recordingObserver) ExemptionApplied(ruleID, state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exemptions == nil {
		o.exemptions = make(map[string]string)
	}
	o.exemptions[ruleID] = state
}

func TestAnalyze_ObservesExemptions(t *testing.T) {
	obs := &recordingObserver{}
	rs, err := rules.Registry(config.RulesConfig{})
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t, config.EngineConfig{}, rs, WithObserver(obs))

	src := "// COMPLEXITY: line-length — table\n// COMPLEXITY-TODO: max-file-lines — split (expires 2099-01-01)\nlet a = 1;\n"
	analyze(t, e, "a.js", src)

	want := map[string]string{
		rules.IDLineLength:   "exempt",
		rules.IDMaxFileLines: "deferred",
	}
	if !reflect.DeepEqual(obs.exemptions, want) {
		t.Errorf("exemptions = %v, want %v", obs.exemptions, want)
	}
	if obs.ruleRuns != len(rs) {
		t.Errorf("RuleCompleted calls = %d, want %d", obs.ruleRuns, len(rs))
	}
	if obs.results[ResultCompliant] != 1 {
		t.Errorf("results = %v, want one compliant file", obs.results)
	}
}

// Package lint defines the violation and report types shared by the rule
// checkers, the aggregation engine and the CLI.
//
// The JSON encodings of Violation and Report are a wire contract consumed by
// editors and CI:
//
//	{ "ruleId": "line-length", "line": 1, "column": 121, "priority": 4,
//	  "message": "...", "isWarning": false }
//
//	{ "filePath": "src/app.ts", "violations": [...], "isCompliant": false }
//
// # Basic Usage
//
// Accumulate violations for one rule:
//
//	list := lint.NewList("max-parameters", lint.PriorityExtraction)
//	list.Addf(fn.StartLine(), fn.Column(), "function %q takes %d parameters", name, n)
//	return list.Violations()
//
// Build a report:
//
//	report := lint.NewReport("src/app.ts", violations)
//	if !report.IsCompliant {
//	    os.Exit(1)
//	}
package lint

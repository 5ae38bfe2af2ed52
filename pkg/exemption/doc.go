// Package exemption parses the structured comments that suppress or time-box
// a rule for one file, and gates rule output accordingly.
//
// Two single-line forms are recognized:
//
//	// COMPLEXITY: <rule-id> — <reason>
//	// COMPLEXITY-TODO: <rule-id> — <reason> (expires YYYY-MM-DD)
//
// The separator is an em-dash. A permanent exemption discards the rule's
// violations. A deferral that has not expired replaces them with a single
// warning; once expired the violations pass through, annotated, and count
// against compliance again.
//
// Only the first comment naming a rule applies, even when that comment is
// malformed. Malformed comments gate like no comment at all; the defect is
// available from Table.Comments for diagnostics.
package exemption

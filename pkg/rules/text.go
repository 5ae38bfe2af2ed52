package rules

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"mercator-hq/cohesion/pkg/exemption"
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// sourceLines splits src into lines without their terminators. A trailing
// newline does not start another line.
func sourceLines(src []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}

func lineLength(limit int) CheckFunc {
	return func(_ *jsast.Tree, src []byte, _ string) []lint.Violation {
		vs := lint.NewList(IDLineLength, lint.PriorityFormatting)
		for i, line := range sourceLines(src) {
			if n := utf8.RuneCountInString(line); n > limit {
				vs.Addf(i+1, limit+1, "line is %d characters, limit is %d; wrap or extract", n, limit)
			}
		}
		return vs.Violations()
	}
}

func checkTrailingWhitespace(_ *jsast.Tree, src []byte, _ string) []lint.Violation {
	vs := lint.NewList(IDTrailingWhitespace, lint.PriorityFormatting)
	for i, line := range sourceLines(src) {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) != len(line) {
			vs.Add(i+1, utf8.RuneCountInString(trimmed)+1, "trailing whitespace; remove it")
		}
	}
	return vs.Violations()
}

func maxFileLines(limit int) CheckFunc {
	return func(_ *jsast.Tree, src []byte, _ string) []lint.Violation {
		n := len(sourceLines(src))
		if n <= limit {
			return nil
		}
		vs := lint.NewList(IDMaxFileLines, lint.PriorityFormatting)
		vs.Addf(limit+1, 1, "file has %d lines, limit is %d; split it by cohesion group", n, limit)
		return vs.Violations()
	}
}

// componentExtensions may hold PascalCase component files.
var componentExtensions = []string{".jsx", ".tsx"}

func checkFileNaming(_ *jsast.Tree, _ []byte, path string) []lint.Violation {
	if path == "" || path == "-" {
		return nil
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return nil
	}
	stem := base
	if i := strings.IndexByte(base, '.'); i > 0 {
		stem = base[:i]
	}
	if jsast.IsKebabCaseName(stem) {
		return nil
	}
	if jsast.IsPascalCaseName(stem) && slices.Contains(componentExtensions, filepath.Ext(base)) {
		return nil
	}

	vs := lint.NewList(IDFileNaming, lint.PriorityStructure)
	vs.Addf(1, 1, "file name %q is not kebab-case; rename it to %q", base, kebabCase(stem)+base[len(stem):])
	return vs.Violations()
}

// kebabCase converts camelCase, PascalCase and snake_case to kebab-case.
func kebabCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == ' ':
			sb.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 && !strings.HasSuffix(sb.String(), "-") {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func checkExemptionSyntax(_ *jsast.Tree, src []byte, _ string) []lint.Violation {
	vs := lint.NewList(IDExemptionSyntax, lint.PriorityExperimental)
	table := exemption.Scan(src)
	for _, c := range table.Comments() {
		switch {
		case c.Malformed():
			msg := fmt.Sprintf("malformed %s comment: %s", c.Marker(), c.Detail)
			if c.Suggestion != "" {
				msg += ". " + c.Suggestion
			}
			vs.Add(c.Line, 1, msg)
		case !slices.Contains(IDs(), c.RuleID):
			vs.Addf(c.Line, 1, "%s names unknown rule %q. %s", c.Marker(), c.RuleID, lint.SuggestName(c.RuleID, IDs()))
		case !table.Applies(c):
			first, _ := table.Lookup(c.RuleID)
			vs.Addf(c.Line, 1, "%s for %q is ignored: the comment on line %d already applies", c.Marker(), c.RuleID, first.Line)
		}
	}
	return vs.Violations()
}

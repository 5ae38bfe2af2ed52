package rules

import (
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

func checkMultilineTernary(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDMultilineTernary, lint.PriorityFormatting)
	for n := range jsast.Flatten(tree.Root()) {
		if !n.Is(jsast.KindConditionalExpression) || !n.SpansMultipleLines() {
			continue
		}
		parent, ok := n.Parent()
		if !ok {
			continue
		}
		// JSX braces delimit the expression like parentheses do.
		if parent.Is(jsast.KindParenthesizedExpression) || parent.Type() == "jsx_expression" {
			continue
		}
		// Nested conditionals are reported by nested-ternary.
		if outer, ok := enclosingExpression(n); ok && outer.Is(jsast.KindConditionalExpression) {
			continue
		}
		vs.Add(n.StartLine(), n.Column(), "conditional spans lines without parentheses; wrap it in ( ) with one branch per line")
	}
	return vs.Violations()
}

func checkSpreadProps(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDSpreadProps, lint.PriorityExperimental)
	for n := range jsast.Flatten(tree.Root()) {
		if n.Is(jsast.KindJSXSpreadAttribute) {
			vs.Addf(n.StartLine(), n.Column(), "JSX spread %s hides which props are passed; list them explicitly", abbreviate(n.Text(), 40))
		}
	}
	return vs.Violations()
}

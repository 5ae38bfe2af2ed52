package rules

import (
	"slices"
	"strings"

	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// memberChain collects the distinct properties read from one base.
type memberChain struct {
	first jsast.Node
	props []string
}

func repeatedMemberChain(threshold int) CheckFunc {
	return func(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
		if tree == nil {
			return nil
		}
		vs := lint.NewList(IDRepeatedMemberChain, lint.PriorityExtraction)
		for _, fn := range jsast.Functions(tree) {
			chains := make(map[string]*memberChain)
			var order []string

			for n := range jsast.DescendantsExcludingNestedFunctions(fn) {
				prop, ok := n.PropertyName()
				if !ok || isCallee(n) || isWriteTarget(n) {
					continue
				}
				base, ok := n.Object()
				if !ok || !isChainBase(base) {
					continue
				}
				key := base.Text()
				c, seen := chains[key]
				if !seen {
					c = &memberChain{first: n}
					chains[key] = c
					order = append(order, key)
				}
				if !slices.Contains(c.props, prop) {
					c.props = append(c.props, prop)
				}
			}

			for _, key := range order {
				c := chains[key]
				if len(c.props) < threshold {
					continue
				}
				list := strings.Join(c.props, ", ")
				vs.Addf(c.first.StartLine(), c.first.Column(),
					"%s is read with %d distinct properties (%s); destructure them once: const { %s } = %s",
					key, len(c.props), list, list, key)
			}
		}
		return vs.Violations()
	}
}

// isChainBase accepts identifiers, this, and non-computed member chains
// over them. Call results and computed access are not stable bases.
func isChainBase(n jsast.Node) bool {
	for {
		switch {
		case n.Is(jsast.KindIdentifier), n.Type() == "this":
			return true
		case n.Is(jsast.KindMemberExpression) && !n.IsComputed():
			obj, ok := n.Object()
			if !ok {
				return false
			}
			n = obj
		default:
			return false
		}
	}
}

// isCallee reports whether a member expression is the method of a call.
func isCallee(n jsast.Node) bool {
	parent, ok := n.Parent()
	return ok && parent.Is(jsast.KindCallExpression) && n.FieldName() == "function"
}

// isWriteTarget reports whether a member expression is assigned or updated.
func isWriteTarget(n jsast.Node) bool {
	parent, ok := n.Parent()
	if !ok {
		return false
	}
	switch parent.Type() {
	case "assignment_expression", "augmented_assignment_expression":
		return n.FieldName() == "left"
	case "update_expression":
		return true
	}
	return false
}

func maxFunctionLength(limit int) CheckFunc {
	return func(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
		if tree == nil {
			return nil
		}
		vs := lint.NewList(IDMaxFunctionLength, lint.PriorityExtraction)
		for _, fn := range jsast.Functions(tree) {
			if !jsast.HasBlockBody(fn) {
				continue
			}
			if lines := fn.Span().Lines(); lines > limit {
				vs.Addf(fn.StartLine(), fn.Column(),
					"function %q is %d lines, limit is %d; extract helpers into a cohesion group", fn.Name(), lines, limit)
			}
		}
		return vs.Violations()
	}
}

func isControlFlow(n jsast.Node) bool {
	return n.Is(jsast.KindIfStatement, jsast.KindForStatement, jsast.KindWhileStatement,
		jsast.KindSwitchStatement, jsast.KindTryStatement)
}

// nestingVisitor tracks control-flow depth inside one function without
// entering nested functions. An else-if continues its chain rather than
// nesting.
type nestingVisitor struct {
	fn      jsast.Node
	limit   int
	depth   int
	deepest int
	first   jsast.Node
}

func (v *nestingVisitor) nests(n jsast.Node) bool {
	if !isControlFlow(n) {
		return false
	}
	parent, ok := n.Parent()
	return !ok || !n.Is(jsast.KindIfStatement) || parent.Type() != "else_clause"
}

func (v *nestingVisitor) Enter(n jsast.Node) error {
	if n != v.fn && jsast.IsFunctionLike(n) {
		return jsast.SkipChildren
	}
	if v.nests(n) {
		v.depth++
		v.deepest = max(v.deepest, v.depth)
		if v.depth > v.limit && !v.first.Valid() {
			v.first = n
		}
	}
	return nil
}

func (v *nestingVisitor) Leave(n jsast.Node) error {
	if n != v.fn && jsast.IsFunctionLike(n) {
		return nil
	}
	if v.nests(n) {
		v.depth--
	}
	return nil
}

func maxNestingDepth(limit int) CheckFunc {
	return func(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
		if tree == nil {
			return nil
		}
		vs := lint.NewList(IDMaxNestingDepth, lint.PriorityExtraction)
		for _, fn := range jsast.Functions(tree) {
			v := &nestingVisitor{fn: fn, limit: limit}
			if err := jsast.Walk(fn, v); err != nil {
				continue
			}
			if v.first.Valid() {
				vs.Addf(v.first.StartLine(), v.first.Column(),
					"%q nests control flow %d deep, limit is %d; return early or extract the inner block", fn.Name(), v.deepest, limit)
			}
		}
		return vs.Violations()
	}
}

func maxParameters(limit int) CheckFunc {
	return func(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
		if tree == nil {
			return nil
		}
		vs := lint.NewList(IDMaxParameters, lint.PriorityExtraction)
		for _, fn := range jsast.Functions(tree) {
			if n := len(fn.Params()); n > limit {
				vs.Addf(fn.StartLine(), fn.Column(),
					"%q takes %d parameters, limit is %d; pass an options object", fn.Name(), n, limit)
			}
		}
		return vs.Violations()
	}
}

// enclosingExpression returns n's parent, looking through parentheses.
func enclosingExpression(n jsast.Node) (jsast.Node, bool) {
	parent, ok := n.Parent()
	for ok && parent.Is(jsast.KindParenthesizedExpression) {
		parent, ok = parent.Parent()
	}
	return parent, ok
}

func checkNestedTernary(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDNestedTernary, lint.PriorityExtraction)
	for n := range jsast.Flatten(tree.Root()) {
		if !n.Is(jsast.KindConditionalExpression) {
			continue
		}
		if parent, ok := enclosingExpression(n); ok && parent.Is(jsast.KindConditionalExpression) {
			vs.Add(n.StartLine(), n.Column(), "nested conditional expression; extract it into a named predicate or use if/else")
		}
	}
	return vs.Violations()
}

func checkModuleScopeSideEffect(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDModuleScopeSideEffect, lint.PriorityExtraction)
	root := tree.Root()
	for n := range jsast.Flatten(root) {
		var call jsast.Node
		switch {
		case n.Is(jsast.KindExpressionStatement):
			children := n.Children()
			if len(children) == 0 || !jsast.IsAtModuleScope(n, root) {
				continue
			}
			call = unwrapValue(children[0])
			if call.Type() == "await_expression" && call.ChildCount() > 0 {
				call = unwrapValue(call.Children()[0])
			}
		case n.Type() == "await_expression":
			// const config = await load(); blocks every importer.
			if n.ChildCount() == 0 || !jsast.IsAtModuleScope(n, root) {
				continue
			}
			call = unwrapValue(n.Children()[0])
		default:
			continue
		}
		if !call.Is(jsast.KindCallExpression) {
			continue
		}
		callee := "function"
		if c, ok := call.Callee(); ok {
			callee = abbreviate(c.Text(), 40)
		}
		vs.Addf(n.StartLine(), n.Column(),
			"call to %s runs when the module is imported; move it into an E (effects) function", callee)
	}
	return vs.Violations()
}

func abbreviate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

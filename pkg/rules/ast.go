package rules

import (
	"regexp"

	"mercator-hq/cohesion/pkg/jsast"
)

var hookNamePattern = regexp.MustCompile(`^use[A-Z0-9]`)

// typeWrappers are TypeScript expression wrappers that do not change what
// a value is at runtime.
var typeWrappers = map[string]bool{
	"as_expression":            true,
	"satisfies_expression":     true,
	"non_null_expression":      true,
	"type_assertion":           true,
	"parenthesized_expression": true,
}

// unwrapValue strips parentheses and TypeScript type wrappers.
func unwrapValue(n jsast.Node) jsast.Node {
	for n.Valid() && typeWrappers[n.Type()] {
		children := n.Children()
		if len(children) == 0 {
			return n
		}
		// type_assertion is <T>expr; the expression comes last.
		if n.Type() == "type_assertion" {
			n = children[len(children)-1]
			continue
		}
		n = children[0]
	}
	return n
}

// binding is a top-level name bound to a value: a function declaration or
// a variable declarator.
type binding struct {
	name     string
	node     jsast.Node // function_declaration or variable_declarator
	decl     jsast.Node // the statement carrying a doc comment
	value    jsast.Node // the function itself, or the unwrapped initializer
	exported bool
	isConst  bool
}

// moduleBindings returns every top-level binding in document order.
// Export statements are looked through.
func moduleBindings(tree *jsast.Tree) []binding {
	var out []binding
	for _, stmt := range jsast.TopLevelStatements(tree) {
		exported := false
		if stmt.Is(jsast.KindExportDeclaration) {
			decl, ok := stmt.Declaration()
			if !ok {
				continue
			}
			stmt, exported = decl, true
		}

		switch stmt.Kind() {
		case jsast.KindFunctionDeclaration, jsast.KindClassDeclaration:
			out = append(out, binding{
				name:     stmt.Name(),
				node:     stmt,
				decl:     stmt,
				value:    stmt,
				exported: exported,
				isConst:  true,
			})
		case jsast.KindFunctionExpression, jsast.KindArrowFunction:
			// export default function () {} and export default () => ...
			out = append(out, binding{
				name:     stmt.Name(),
				node:     stmt,
				decl:     stmt,
				value:    stmt,
				exported: exported,
				isConst:  true,
			})
		case jsast.KindVariableDeclaration:
			isConst := len(stmt.Text()) >= 5 && stmt.Text()[:5] == "const"
			for _, d := range stmt.Declarators() {
				if !d.Pattern.Is(jsast.KindIdentifier) || !d.HasInit() {
					continue
				}
				out = append(out, binding{
					name:     d.Pattern.Text(),
					node:     d.Node,
					decl:     stmt,
					value:    unwrapValue(d.Init),
					exported: exported,
					isConst:  isConst,
				})
			}
		}
	}
	return out
}

// isFunction reports whether the binding holds a function.
func (b binding) isFunction() bool {
	return jsast.IsFunctionLike(b.value)
}

// isComponent reports whether the binding is a React component: a
// PascalCase function that returns JSX.
func (b binding) isComponent() bool {
	return b.isFunction() && jsast.IsPascalCaseName(b.name) && jsast.ReturnsJSX(b.value)
}

// isObjectOfFunctions reports whether n is an object literal whose every
// member is a function.
func isObjectOfFunctions(n jsast.Node) bool {
	if !n.Is(jsast.KindObjectExpression) {
		return false
	}
	members := 0
	for _, child := range n.Children() {
		switch {
		case child.Is(jsast.KindComment):
			continue
		case child.Is(jsast.KindMethodDefinition):
		case child.Is(jsast.KindPair):
			value, ok := child.Field("value")
			if !ok || !jsast.IsFunctionLike(unwrapValue(value)) {
				return false
			}
		default:
			return false
		}
		members++
	}
	return members > 0
}

// cohesionGroups returns the top-level bindings that form cohesion groups.
func cohesionGroups(tree *jsast.Tree) []binding {
	var out []binding
	for _, b := range moduleBindings(tree) {
		if jsast.IsCohesionGroupName(b.name) && b.value.Is(jsast.KindObjectExpression) {
			out = append(out, b)
		}
	}
	return out
}

package rules

import (
	"regexp"
	"strings"
	"unicode"

	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

var (
	screamingSnakePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
	camelCasePattern      = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
)

func checkComponentNaming(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDComponentNaming, lint.PriorityNaming)
	for _, fn := range jsast.Functions(tree) {
		if !isNamedBinding(fn) {
			continue
		}
		name := fn.Name()
		if name == jsast.AnonymousName || jsast.IsPascalCaseName(name) || !jsast.ReturnsJSX(fn) {
			continue
		}
		vs.Addf(fn.StartLine(), fn.Column(),
			"%q returns JSX but is not PascalCase; rename it to %q", name, pascalCase(name))
	}
	return vs.Violations()
}

// isNamedBinding reports whether fn is a function declaration or the
// initializer of a variable declarator.
func isNamedBinding(fn jsast.Node) bool {
	if fn.Is(jsast.KindFunctionDeclaration) {
		return true
	}
	parent, ok := fn.Parent()
	for ok && typeWrappers[parent.Type()] {
		parent, ok = parent.Parent()
	}
	return ok && parent.Is(jsast.KindVariableDeclarator)
}

func pascalCase(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// primitiveTypes are the grammar types of literal initializers.
var primitiveTypes = map[string]bool{
	"string": true,
	"number": true,
	"true":   true,
	"false":  true,
	"null":   true,
}

func isPrimitiveLiteral(n jsast.Node) bool {
	switch {
	case primitiveTypes[n.Type()]:
		return true
	case n.Type() == "template_string":
		// Only templates without ${...} are constant.
		for _, child := range n.Children() {
			if child.Type() == "template_substitution" {
				return false
			}
		}
		return true
	case n.Type() == "unary_expression":
		children := n.Children()
		return len(children) == 1 && children[0].Type() == "number"
	}
	return false
}

func checkConstantNaming(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDConstantNaming, lint.PriorityNaming)
	for _, b := range moduleBindings(tree) {
		if !b.isConst || !isPrimitiveLiteral(b.value) {
			continue
		}
		if screamingSnakePattern.MatchString(b.name) || camelCasePattern.MatchString(b.name) {
			continue
		}
		vs.Addf(b.node.StartLine(), b.node.Column(),
			"constant %q is neither SCREAMING_SNAKE_CASE nor camelCase; rename it to %q", b.name, screamingSnake(b.name))
	}
	return vs.Violations()
}

func screamingSnake(name string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			sb.WriteByte('_')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return sb.String()
}

func checkFunctionDocumentation(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDFunctionDocumentation, lint.PriorityNaming)
	for _, b := range moduleBindings(tree) {
		if !b.exported || !b.isFunction() {
			continue
		}
		if _, ok := jsast.DocComment(b.decl); ok {
			continue
		}
		name := b.name
		if name == jsast.AnonymousName {
			name = "default"
		}
		vs.Addf(b.decl.StartLine(), b.decl.Column(),
			"exported function %q has no /** */ doc comment; document what it does", name)
	}
	return vs.Violations()
}

func checkCohesionGroupDocumentation(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDCohesionGroupDocumentation, lint.PriorityNaming)
	for _, g := range cohesionGroups(tree) {
		if _, ok := jsast.DocComment(g.decl); ok {
			continue
		}
		vs.Addf(g.decl.StartLine(), g.decl.Column(),
			"cohesion group %s has no /** */ doc comment; describe the role of its functions", g.name)
	}
	return vs.Violations()
}

package jsast

import "regexp"

var (
	// pascalCasePattern matches names like "UserCard" or "App2".
	pascalCasePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

	// kebabCasePattern matches names like "user-card" or "index".
	kebabCasePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Cohesion group identifiers. A file groups its functions by role under
// these single-letter namespaces, declared in this order.
const (
	GroupPredicates   = "P"
	GroupValidators   = "V"
	GroupTransformers = "T"
	GroupFactories    = "F"
	GroupAggregators  = "A"
	GroupEffects      = "E"
)

var cohesionOrder = [...]string{
	GroupPredicates,
	GroupValidators,
	GroupTransformers,
	GroupFactories,
	GroupAggregators,
	GroupEffects,
}

// CohesionGroups returns the cohesion group identifiers in canonical order.
func CohesionGroups() []string {
	return cohesionOrder[:]
}

// IsCohesionGroupName returns true if name is one of the fixed group letters.
func IsCohesionGroupName(name string) bool {
	_, ok := CohesionGroupRank(name)
	return ok
}

// CohesionGroupRank returns the canonical position of a group name.
func CohesionGroupRank(name string) (int, bool) {
	for i, g := range cohesionOrder {
		if g == name {
			return i, true
		}
	}
	return 0, false
}

// IsFunctionLike returns true for function declarations, function
// expressions, arrow functions and methods.
func IsFunctionLike(n Node) bool {
	return n.Is(KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction, KindMethodDefinition)
}

// IsBlockBody returns true if n is a { ... } statement block.
func IsBlockBody(n Node) bool {
	return n.Is(KindStatementBlock)
}

// HasBlockBody returns true if fn is function-like with a block body.
func HasBlockBody(fn Node) bool {
	body, ok := fn.Body()
	return ok && IsBlockBody(body)
}

// IsPascalCaseName returns true for PascalCase identifiers.
func IsPascalCaseName(name string) bool {
	return pascalCasePattern.MatchString(name)
}

// IsKebabCaseName returns true for kebab-case names.
func IsKebabCaseName(name string) bool {
	return kebabCasePattern.MatchString(name)
}

// IsJSX returns true for JSX elements and fragments.
func IsJSX(n Node) bool {
	return n.Is(KindJSXElement, KindJSXFragment)
}

// ReturnsJSX returns true if fn's expression body, or any return statement
// of its block body, yields a JSX element or fragment. Returns inside
// nested functions do not count.
func ReturnsJSX(fn Node) bool {
	body, ok := fn.Body()
	if !ok {
		return false
	}
	if !IsBlockBody(body) {
		return yieldsJSX(body)
	}
	for n := range DescendantsExcludingNestedFunctions(fn) {
		if !n.Is(KindReturnStatement) {
			continue
		}
		children := n.Children()
		if len(children) > 0 && yieldsJSX(children[0]) {
			return true
		}
	}
	return false
}

// yieldsJSX reports whether an expression evaluates to JSX, looking through
// parentheses and both branches of a conditional.
func yieldsJSX(expr Node) bool {
	expr = Unwrap(expr)
	if IsJSX(expr) {
		return true
	}
	if expr.Is(KindConditionalExpression) {
		cons, _ := expr.Field("consequence")
		alt, _ := expr.Field("alternative")
		return yieldsJSX(cons) || yieldsJSX(alt)
	}
	return false
}

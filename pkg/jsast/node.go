package jsast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// AnonymousName is returned by Name when a node has no bound identifier.
const AnonymousName = "<anonymous>"

// Node is a handle to one wrapped syntax node.
// Nodes are comparable: a == b iff both wrap the same parser node.
// The zero Node wraps nothing; every accessor on it returns a zero value.
type Node struct {
	tree *Tree
	id   NodeID
}

func (n Node) rec() *record {
	if n.tree == nil || n.id < 0 || int(n.id) >= len(n.tree.nodes) {
		return nil
	}
	return &n.tree.nodes[n.id]
}

// Valid returns true if the node wraps a parser node.
func (n Node) Valid() bool {
	return n.rec() != nil
}

// ID returns the node's arena index.
func (n Node) ID() NodeID {
	return n.id
}

// Tree returns the tree that owns the node.
func (n Node) Tree() *Tree {
	return n.tree
}

// Kind returns the node's kind.
func (n Node) Kind() Kind {
	if r := n.rec(); r != nil {
		return r.kind
	}
	return KindOther
}

// Is returns true if the node's kind is one of kinds.
func (n Node) Is(kinds ...Kind) bool {
	r := n.rec()
	if r == nil {
		return false
	}
	for _, k := range kinds {
		if r.kind == k {
			return true
		}
	}
	return false
}

// Type returns the raw grammar type (e.g. "lexical_declaration").
func (n Node) Type() string {
	if r := n.rec(); r != nil {
		return r.typ
	}
	return ""
}

// Raw returns the underlying tree-sitter node. It is nil once the Tree is closed.
func (n Node) Raw() *sitter.Node {
	if r := n.rec(); r != nil {
		return r.raw
	}
	return nil
}

// Span returns the node's source span.
func (n Node) Span() Span {
	if r := n.rec(); r != nil {
		return r.span
	}
	return Span{}
}

// StartLine returns the 1-based line the node starts on.
func (n Node) StartLine() int { return n.Span().StartLine }

// EndLine returns the 1-based line the node ends on.
func (n Node) EndLine() int { return n.Span().EndLine }

// Column returns the 1-based start column.
func (n Node) Column() int { return n.Span().StartColumn }

// SpansMultipleLines returns true iff EndLine > StartLine.
func (n Node) SpansMultipleLines() bool {
	s := n.Span()
	return s.EndLine > s.StartLine
}

// Text returns the source text covered by the node.
func (n Node) Text() string {
	r := n.rec()
	if r == nil || int(r.end) > len(n.tree.src) || r.start > r.end {
		return ""
	}
	return string(n.tree.src[r.start:r.end])
}

// Parent returns the parent node; ok is false for the root.
func (n Node) Parent() (Node, bool) {
	r := n.rec()
	if r == nil || r.parent == noNode {
		return Node{}, false
	}
	return Node{tree: n.tree, id: r.parent}, true
}

// FieldName returns the grammar field this node occupies in its parent.
func (n Node) FieldName() string {
	if r := n.rec(); r != nil {
		return r.field
	}
	return ""
}

// Children returns the named children in document order.
func (n Node) Children() []Node {
	r := n.rec()
	if r == nil {
		return nil
	}
	out := make([]Node, len(r.children))
	for i, id := range r.children {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// ChildCount returns the number of named children.
func (n Node) ChildCount() int {
	if r := n.rec(); r != nil {
		return len(r.children)
	}
	return 0
}

// Field returns the first child occupying the given grammar field.
func (n Node) Field(name string) (Node, bool) {
	r := n.rec()
	if r == nil {
		return Node{}, false
	}
	for _, id := range r.children {
		if n.tree.nodes[id].field == name {
			return Node{tree: n.tree, id: id}, true
		}
	}
	return Node{}, false
}

// PrevSibling returns the previous named sibling, comments included.
func (n Node) PrevSibling() (Node, bool) {
	parent, ok := n.Parent()
	if !ok {
		return Node{}, false
	}
	siblings := parent.rec().children
	for i, id := range siblings {
		if id == n.id && i > 0 {
			return Node{tree: n.tree, id: siblings[i-1]}, true
		}
	}
	return Node{}, false
}

// Name returns the bound identifier for functions, classes and declarators
// initialized with a function. Function expressions take the name of the
// declarator or object property they are assigned to.
// It returns AnonymousName when no name can be found.
func (n Node) Name() string {
	switch n.Kind() {
	case KindFunctionDeclaration, KindClassDeclaration, KindMethodDefinition:
		if name, ok := n.Field("name"); ok {
			return name.Text()
		}
	case KindVariableDeclarator:
		init, ok := n.Field("value")
		if ok && IsFunctionLike(Unwrap(init)) {
			if name, ok := n.Field("name"); ok && name.Is(KindIdentifier) {
				return name.Text()
			}
		}
	case KindFunctionExpression, KindArrowFunction:
		if name, ok := n.Field("name"); ok {
			return name.Text()
		}
		parent, ok := n.Parent()
		for ok && parent.Is(KindParenthesizedExpression) {
			parent, ok = parent.Parent()
		}
		if !ok {
			break
		}
		switch parent.Kind() {
		case KindVariableDeclarator:
			if name, ok := parent.Field("name"); ok && name.Is(KindIdentifier) {
				return name.Text()
			}
		case KindPair:
			if key, ok := parent.Field("key"); ok {
				return key.Text()
			}
		}
	}
	return AnonymousName
}

// Body returns the body of a function-like or class node. For arrow
// functions with an expression body the expression is returned.
func (n Node) Body() (Node, bool) {
	if !IsFunctionLike(n) && !n.Is(KindClassDeclaration) {
		return Node{}, false
	}
	return n.Field("body")
}

// Params returns the formal parameters of a function-like node.
func (n Node) Params() []Node {
	if !IsFunctionLike(n) {
		return nil
	}
	if single, ok := n.Field("parameter"); ok {
		return []Node{single}
	}
	list, ok := n.Field("parameters")
	if !ok {
		return nil
	}
	var params []Node
	for _, p := range list.Children() {
		if p.Is(KindComment) {
			continue
		}
		params = append(params, p)
	}
	return params
}

// Object returns the base expression of a member expression.
func (n Node) Object() (Node, bool) {
	if !n.Is(KindMemberExpression) {
		return Node{}, false
	}
	return n.Field("object")
}

// IsComputed returns true for bracket-indexed member access.
func (n Node) IsComputed() bool {
	r := n.rec()
	return r != nil && r.flags&flagComputed != 0
}

// PropertyName returns the accessed property of a non-computed member
// expression. Computed access (obj[key]) yields ok == false.
func (n Node) PropertyName() (string, bool) {
	if !n.Is(KindMemberExpression) || n.IsComputed() {
		return "", false
	}
	prop, ok := n.Field("property")
	if !ok {
		return "", false
	}
	return prop.Text(), true
}

// Callee returns the called expression of a call expression.
func (n Node) Callee() (Node, bool) {
	if !n.Is(KindCallExpression) {
		return Node{}, false
	}
	return n.Field("function")
}

// Declarator is one binding of a variable declaration.
type Declarator struct {
	Node    Node // the variable_declarator itself
	Pattern Node // identifier or destructuring pattern
	Init    Node // initializer; zero Node when absent
}

// HasInit returns true if the declarator has an initializer.
func (d Declarator) HasInit() bool {
	return d.Init.Valid()
}

// Declarators returns the bindings of a variable declaration.
func (n Node) Declarators() []Declarator {
	if !n.Is(KindVariableDeclaration) {
		return nil
	}
	var out []Declarator
	for _, child := range n.Children() {
		if !child.Is(KindVariableDeclarator) {
			continue
		}
		d := Declarator{Node: child}
		d.Pattern, _ = child.Field("name")
		d.Init, _ = child.Field("value")
		out = append(out, d)
	}
	return out
}

// IsDefaultExport returns true for `export default ...` statements.
func (n Node) IsDefaultExport() bool {
	r := n.rec()
	return r != nil && r.kind == KindExportDeclaration && r.flags&flagDefaultExport != 0
}

// Declaration returns the declaration or value an export statement exports.
// Re-exports (`export { a } from "./b"`) have neither and return ok == false.
func (n Node) Declaration() (Node, bool) {
	if !n.Is(KindExportDeclaration) {
		return Node{}, false
	}
	if decl, ok := n.Field("declaration"); ok {
		return decl, true
	}
	return n.Field("value")
}

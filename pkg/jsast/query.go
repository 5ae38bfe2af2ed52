package jsast

import "iter"

// Flatten returns every node of root's subtree in depth-first pre-order,
// parent before children. The sequence is lazy and can be ranged over any
// number of times.
func Flatten(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		r := root.rec()
		if r == nil {
			return
		}
		// Pre-order ids make a subtree one contiguous range.
		for id := root.id; id < r.subtree; id++ {
			if !yield(Node{tree: root.tree, id: id}) {
				return
			}
		}
	}
}

// TopLevelStatements returns the direct children of the program root,
// excluding comments.
func TopLevelStatements(tree *Tree) []Node {
	root := tree.Root()
	var out []Node
	for _, child := range root.Children() {
		if child.Is(KindComment) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// DescendantsExcludingNestedFunctions walks a function's body in pre-order
// without descending into nested function boundaries. A nested function
// node is yielded itself, but nothing inside it is.
func DescendantsExcludingNestedFunctions(fn Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		body, ok := fn.Body()
		if !ok {
			return
		}
		end := body.rec().subtree
		for id := body.id; id < end; {
			n := Node{tree: fn.tree, id: id}
			if !yield(n) {
				return
			}
			if IsFunctionLike(n) || n.Is(KindClassDeclaration) {
				id = n.rec().subtree
				continue
			}
			id++
		}
	}
}

// IsAtModuleScope returns true iff node is a top-level statement or the
// initializer of a top-level variable declarator. Declarations wrapped in
// an export statement count as top-level.
func IsAtModuleScope(node, root Node) bool {
	if !node.Valid() || !root.Valid() {
		return false
	}
	if isTopLevel(node, root) {
		return true
	}

	declarator, ok := node.Parent()
	if !ok || !declarator.Is(KindVariableDeclarator) || node.FieldName() != "value" {
		return false
	}
	declaration, ok := declarator.Parent()
	if !ok || !declaration.Is(KindVariableDeclaration) {
		return false
	}
	return isTopLevel(declaration, root)
}

// isTopLevel reports whether n is a direct child of root, or the
// declaration of an export statement that is.
func isTopLevel(n, root Node) bool {
	parent, ok := n.Parent()
	if !ok {
		return false
	}
	if parent == root {
		return true
	}
	if parent.Is(KindExportDeclaration) {
		grand, ok := parent.Parent()
		return ok && grand == root
	}
	return false
}

// Functions returns every function-like node in the tree, in document order.
func Functions(tree *Tree) []Node {
	var out []Node
	for n := range Flatten(tree.Root()) {
		if IsFunctionLike(n) {
			out = append(out, n)
		}
	}
	return out
}

// DocComment returns the comment that immediately precedes n (or the export
// statement wrapping n) when it is a /** ... */ block ending on the line
// directly above.
func DocComment(n Node) (Node, bool) {
	target := n
	if parent, ok := n.Parent(); ok && parent.Is(KindExportDeclaration) {
		target = parent
	}
	prev, ok := target.PrevSibling()
	if !ok || !prev.Is(KindComment) {
		return Node{}, false
	}
	if prev.EndLine() < target.StartLine()-1 {
		return Node{}, false
	}
	text := prev.Text()
	if len(text) < 3 || text[:3] != "/**" {
		return Node{}, false
	}
	return prev, true
}

// Unwrap strips parentheses around an expression.
func Unwrap(n Node) Node {
	for n.Is(KindParenthesizedExpression) {
		children := n.Children()
		if len(children) == 0 {
			return n
		}
		n = children[0]
	}
	return n
}

// Package jsast provides the Abstract Syntax Tree (AST) model that every
// cohesion rule runs against.
//
// Source files are parsed with tree-sitter and wrapped into an arena-backed
// Tree. Plain TypeScript (.ts, .mts, .cts) uses the TypeScript grammar, where
// <T>expr is a type assertion; JavaScript, JSX and TSX use the TSX grammar
// (see DialectFor). Each named syntax node becomes one record in a flat slice
// owned by the Tree; a Node is a small comparable handle (tree pointer plus
// index). Parent links are indexes into the same slice, so the tree has no
// reference cycles and parent lookup is O(1).
//
// # Core Types
//
// Tree: Owns the source bytes and the node arena for one parsed file
//
// Node: Handle to one wrapped syntax node; two Nodes are equal (==) iff they
// wrap the same underlying parser node
//
// Kind: Closed set of node kinds consumed by the rules (everything else is
// KindOther)
//
// Span: Source span (start/end line and column, 1-based)
//
// # Basic Usage
//
// Parse a file and iterate over every node:
//
//	tree, err := jsast.ParseFile(ctx, "src/user-card.tsx", src)
//	if err != nil {
//	    var syntaxErr *jsast.SyntaxError
//	    if errors.As(err, &syntaxErr) {
//	        fmt.Println("syntax error at line", syntaxErr.Line)
//	    }
//	    return err
//	}
//	defer tree.Close()
//
//	for n := range jsast.Flatten(tree.Root()) {
//	    if jsast.IsFunctionLike(n) {
//	        fmt.Println(n.Name(), n.StartLine())
//	    }
//	}
//
// # Queries
//
// Flatten: full depth-first pre-order traversal
//
// TopLevelStatements: direct children of the program root
//
// DescendantsExcludingNestedFunctions: a function's own scope, not descending
// into inner callbacks
//
// IsAtModuleScope: top-level statement or initializer of a top-level declarator
//
// All sequences are iter.Seq values: lazy, restartable, and deterministic for
// a given tree.
//
// # Missing Structure
//
// Accessors never panic on unexpected shapes. A function without a body, a
// computed member access without a property name, or a declarator without an
// initializer all return the zero Node (or ok == false). Rules treat that as
// "does not apply".
package jsast

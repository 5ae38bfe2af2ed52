package jsast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// NodeID indexes a node record inside its Tree's arena.
// IDs are assigned in depth-first pre-order, so a node's subtree occupies
// the contiguous range [id, end).
type NodeID int32

const noNode NodeID = -1

type nodeFlags uint8

const (
	flagComputed      nodeFlags = 1 << iota // subscript access: obj[expr]
	flagDefaultExport                       // export default ...
)

// record is the arena entry for one wrapped node.
type record struct {
	kind     Kind
	typ      string
	span     Span
	start    uint32
	end      uint32
	parent   NodeID
	subtree  NodeID // exclusive end of this node's pre-order range
	field    string // field name in the parent, if any
	flags    nodeFlags
	children []NodeID
	raw      *sitter.Node
}

// Tree owns the source bytes and the node arena of one parsed file.
// A Tree is immutable after Parse returns and safe for concurrent reads.
type Tree struct {
	src   []byte
	nodes []record
	ts    *sitter.Tree
}

// Root returns the program node.
func (t *Tree) Root() Node {
	if t == nil || len(t.nodes) == 0 {
		return Node{}
	}
	return Node{tree: t, id: 0}
}

// Source returns the parsed source bytes.
func (t *Tree) Source() []byte {
	if t == nil {
		return nil
	}
	return t.src
}

// Len returns the number of wrapped nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the node with the given id, or the zero Node if out of range.
func (t *Tree) Node(id NodeID) Node {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// Close releases the underlying parser tree. Raw nodes are invalid afterwards;
// every other accessor keeps working because it reads from the arena.
func (t *Tree) Close() {
	if t == nil || t.ts == nil {
		return
	}
	t.ts.Close()
	t.ts = nil
	for i := range t.nodes {
		t.nodes[i].raw = nil
	}
}

// pending is a raw node waiting to be wrapped during the build walk.
type pending struct {
	raw    *sitter.Node
	parent NodeID
	field  string
}

// build wraps every named node of a parser tree into the arena.
// The walk is iterative so deeply nested input cannot exhaust the stack.
// It also reports the first ERROR or MISSING node it meets.
func build(src []byte, ts *sitter.Tree) (*Tree, *SyntaxError) {
	t := &Tree{src: src, ts: ts}
	root := ts.RootNode()
	if root == nil {
		return t, nil
	}

	var syntaxErr *SyntaxError
	stack := []pending{{raw: root, parent: noNode}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		raw := item.raw

		if syntaxErr == nil && (raw.Type() == "ERROR" || raw.IsMissing()) {
			syntaxErr = newSyntaxError(raw)
		}

		parentType := ""
		if item.parent != noNode {
			parentType = t.nodes[item.parent].typ
		}

		id := NodeID(len(t.nodes))
		rec := record{
			kind:   kindOf(raw.Type(), parentType, isFragment(raw)),
			typ:    raw.Type(),
			span:   spanOf(raw),
			start:  raw.StartByte(),
			end:    raw.EndByte(),
			parent: item.parent,
			field:  item.field,
			raw:    raw,
		}

		// Collect named children; inspect anonymous tokens for flags.
		count := int(raw.ChildCount())
		named := make([]pending, 0, count)
		for i := 0; i < count; i++ {
			child := raw.Child(i)
			if child == nil {
				continue
			}
			if !child.IsNamed() {
				if child.IsMissing() && syntaxErr == nil {
					syntaxErr = newSyntaxError(child)
				}
				if child.Type() == "default" && rec.typ == "export_statement" {
					rec.flags |= flagDefaultExport
				}
				continue
			}
			named = append(named, pending{raw: child, parent: id, field: raw.FieldNameForChild(i)})
		}
		if rec.typ == "subscript_expression" {
			rec.flags |= flagComputed
		}

		t.nodes = append(t.nodes, rec)
		if item.parent != noNode {
			p := &t.nodes[item.parent]
			p.children = append(p.children, id)
		}

		for i := len(named) - 1; i >= 0; i-- {
			stack = append(stack, named[i])
		}
	}

	// Pre-order ids: a node's subtree ends where its last child's subtree ends.
	for i := len(t.nodes) - 1; i >= 0; i-- {
		rec := &t.nodes[i]
		if len(rec.children) == 0 {
			rec.subtree = NodeID(i + 1)
			continue
		}
		rec.subtree = t.nodes[rec.children[len(rec.children)-1]].subtree
	}

	return t, syntaxErr
}

// isFragment reports whether a jsx_element is a fragment (<>...</>).
func isFragment(raw *sitter.Node) bool {
	if raw.Type() != "jsx_element" {
		return false
	}
	open := raw.ChildByFieldName("open_tag")
	return open != nil && open.ChildByFieldName("name") == nil
}

// spanOf converts tree-sitter's 0-based points into a 1-based Span.
func spanOf(raw *sitter.Node) Span {
	start := raw.StartPoint()
	end := raw.EndPoint()
	return Span{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

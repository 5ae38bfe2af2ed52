package jsast

import "errors"

// SkipChildren can be returned from Visitor.Enter to skip a node's subtree.
// Leave is still called for the skipped node.
var SkipChildren = errors.New("skip children")

// Visitor provides an interface for traversing the tree with enter/leave
// callbacks, e.g. to track nesting depth.
type Visitor interface {
	Enter(Node) error
	Leave(Node) error
}

// Walk traverses root's subtree depth-first, calling Enter before a node's
// children and Leave after them. It returns the first error encountered
// other than SkipChildren.
func Walk(root Node, visitor Visitor) error {
	if !root.Valid() {
		return nil
	}

	type frame struct {
		node  Node
		left  bool
		index int
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if !top.left && top.index == 0 {
			err := visitor.Enter(top.node)
			if errors.Is(err, SkipChildren) {
				top.left = true
			} else if err != nil {
				return err
			}
		}

		children := top.node.rec().children
		if !top.left && top.index < len(children) {
			child := Node{tree: top.node.tree, id: children[top.index]}
			top.index++
			stack = append(stack, frame{node: child})
			continue
		}

		if err := visitor.Leave(top.node); err != nil {
			return err
		}
		stack = stack[:len(stack)-1]
	}

	return nil
}

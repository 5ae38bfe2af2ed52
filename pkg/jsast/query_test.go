package jsast

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func firstOfKind(t *testing.T, tree *Tree, kind Kind) Node {
	t.Helper()
	for n := range Flatten(tree.Root()) {
		if n.Is(kind) {
			return n
		}
	}
	t.Fatalf("no %s node found", kind)
	return Node{}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("function (\n"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Parse() error = %v, want *SyntaxError", err)
	}
	if syntaxErr.Line < 1 {
		t.Errorf("SyntaxError.Line = %d, want >= 1", syntaxErr.Line)
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		path string
		want Dialect
	}{
		{"src/util.ts", DialectTypeScript},
		{"src/types.d.ts", DialectTypeScript},
		{"src/loader.MTS", DialectTypeScript},
		{"src/config.cts", DialectTypeScript},
		{"src/App.tsx", DialectTSX},
		{"src/app.jsx", DialectTSX},
		{"src/index.js", DialectTSX},
		{"stdin", DialectTSX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DialectFor(tt.path); got != tt.want {
				t.Errorf("DialectFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFile_TypeAssertion(t *testing.T) {
	src := []byte("const n = <number>value;\n")

	tree, err := ParseFile(context.Background(), "util.ts", src)
	if err != nil {
		t.Fatalf("ParseFile(util.ts) error = %v", err)
	}
	defer tree.Close()
	if decls := TopLevelStatements(tree); len(decls) != 1 || !decls[0].Is(KindVariableDeclaration) {
		t.Errorf("TopLevelStatements() = %v", decls)
	}

	var syntaxErr *SyntaxError
	if _, err := ParseFile(context.Background(), "util.tsx", src); !errors.As(err, &syntaxErr) {
		t.Errorf("ParseFile(util.tsx) error = %v, want *SyntaxError", err)
	}
}

func TestParse_SourceTooLarge(t *testing.T) {
	p := NewParser().WithMaxSourceSize(4)
	defer p.Close()

	_, err := p.Parse(context.Background(), []byte("let x = 1"))
	if !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("Parse() error = %v, want ErrSourceTooLarge", err)
	}
}

func TestFlatten_PreOrderAndRestartable(t *testing.T) {
	tree := mustParse(t, "const a = 1;\nfunction f() { return a; }\n")

	seq := Flatten(tree.Root())
	var first, second []NodeID
	for n := range seq {
		first = append(first, n.ID())
	}
	for n := range seq {
		second = append(second, n.ID())
	}

	if len(first) != tree.Len() {
		t.Errorf("Flatten() visited %d nodes, want %d", len(first), tree.Len())
	}
	if !slices.Equal(first, second) {
		t.Errorf("Flatten() second pass differs from first")
	}

	// Parents always precede their children.
	seen := make(map[NodeID]bool)
	for n := range seq {
		if parent, ok := n.Parent(); ok && !seen[parent.ID()] {
			t.Errorf("node %d visited before its parent %d", n.ID(), parent.ID())
		}
		seen[n.ID()] = true
	}
}

func TestTopLevelStatements(t *testing.T) {
	tree := mustParse(t, "// header\nimport x from 'x';\nconst a = 1;\nfunction f() { const b = 2; }\n")

	got := TopLevelStatements(tree)
	want := []Kind{KindImportDeclaration, KindVariableDeclaration, KindFunctionDeclaration}
	if len(got) != len(want) {
		t.Fatalf("TopLevelStatements() returned %d nodes, want %d", len(got), len(want))
	}
	for i, n := range got {
		if n.Kind() != want[i] {
			t.Errorf("TopLevelStatements()[%d] = %s, want %s", i, n.Kind(), want[i])
		}
	}
}

func TestDescendantsExcludingNestedFunctions(t *testing.T) {
	src := `function outer(state) {
  state.a;
  items.map(function inner() { return state.b; });
  const g = () => state.c;
}
`
	tree := mustParse(t, src)
	outer := firstOfKind(t, tree, KindFunctionDeclaration)

	var props []string
	var nested int
	for n := range DescendantsExcludingNestedFunctions(outer) {
		if IsFunctionLike(n) {
			nested++
		}
		if name, ok := n.PropertyName(); ok {
			props = append(props, name)
		}
	}

	if nested != 2 {
		t.Errorf("nested functions yielded = %d, want 2", nested)
	}
	if want := []string{"a", "map"}; !slices.Equal(props, want) {
		t.Errorf("properties = %v, want %v", props, want)
	}
}

func TestIsAtModuleScope(t *testing.T) {
	src := `const top = () => 1;
export const exported = () => 2;
function f() {
  const inner = () => 3;
}
`
	tree := mustParse(t, src)
	root := tree.Root()

	var arrows []Node
	for n := range Flatten(root) {
		if n.Is(KindArrowFunction) {
			arrows = append(arrows, n)
		}
	}
	if len(arrows) != 3 {
		t.Fatalf("found %d arrow functions, want 3", len(arrows))
	}

	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"top-level initializer", arrows[0], true},
		{"exported initializer", arrows[1], true},
		{"nested initializer", arrows[2], false},
		{"function declaration", firstOfKind(t, tree, KindFunctionDeclaration), true},
		{"root itself", root, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAtModuleScope(tt.node, root); got != tt.want {
				t.Errorf("IsAtModuleScope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocComment(t *testing.T) {
	src := `/** Documented. */
export function documented() {}

// plain comment
function plain() {}

/** Too far away. */

function detached() {}
`
	tree := mustParse(t, src)

	want := map[string]bool{"documented": true, "plain": false, "detached": false}
	for _, fn := range Functions(tree) {
		_, ok := DocComment(fn)
		if ok != want[fn.Name()] {
			t.Errorf("DocComment(%s) ok = %v, want %v", fn.Name(), ok, want[fn.Name()])
		}
	}
}

type depthVisitor struct {
	depth, max int
}

func (v *depthVisitor) Enter(n Node) error {
	if n.Is(KindIfStatement) {
		v.depth++
		v.max = max(v.max, v.depth)
	}
	if n.Is(KindArrowFunction) {
		return SkipChildren
	}
	return nil
}

func (v *depthVisitor) Leave(n Node) error {
	if n.Is(KindIfStatement) {
		v.depth--
	}
	return nil
}

func TestWalk(t *testing.T) {
	src := `if (a) {
  if (b) {
    const f = () => { if (c) { if (d) {} } };
  }
}
`
	tree := mustParse(t, src)
	v := &depthVisitor{}
	if err := Walk(tree.Root(), v); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if v.max != 2 {
		t.Errorf("max depth = %d, want 2", v.max)
	}
	if v.depth != 0 {
		t.Errorf("depth after walk = %d, want 0", v.depth)
	}
}

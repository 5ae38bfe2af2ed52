package jsast

import "testing"

func TestNamePredicates(t *testing.T) {
	tests := []struct {
		input  string
		pascal bool
		kebab  bool
		group  bool
	}{
		{"UserCard", true, false, false},
		{"userCard", false, false, false},
		{"user-card", false, true, false},
		{"index", false, true, false},
		{"P", true, false, true},
		{"E", true, false, true},
		{"X", true, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsPascalCaseName(tt.input); got != tt.pascal {
				t.Errorf("IsPascalCaseName(%q) = %v, want %v", tt.input, got, tt.pascal)
			}
			if got := IsKebabCaseName(tt.input); got != tt.kebab {
				t.Errorf("IsKebabCaseName(%q) = %v, want %v", tt.input, got, tt.kebab)
			}
			if got := IsCohesionGroupName(tt.input); got != tt.group {
				t.Errorf("IsCohesionGroupName(%q) = %v, want %v", tt.input, got, tt.group)
			}
		})
	}
}

func TestCohesionGroupRank(t *testing.T) {
	for i, g := range CohesionGroups() {
		rank, ok := CohesionGroupRank(g)
		if !ok || rank != i {
			t.Errorf("CohesionGroupRank(%q) = %d, %v, want %d, true", g, rank, ok, i)
		}
	}
}

func TestReturnsJSX(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"expression body", "const A = () => <div />;", true},
		{"parenthesized body", "const A = () => (\n  <div>hi</div>\n);", true},
		{"fragment return", "function A() { return <></>; }", true},
		{"conditional return", "function A(x) { if (x) { return null; } return x ? <a /> : null; }", true},
		{"plain value", "function f() { return 1; }", false},
		{"nested callback only", "function f(xs) { return xs.map(() => <li />); }", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)
			fn := Functions(tree)[0]
			if got := ReturnsJSX(fn); got != tt.want {
				t.Errorf("ReturnsJSX() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBlockBody(t *testing.T) {
	tree := mustParse(t, "const a = () => 1;\nfunction b() {}\n")
	fns := Functions(tree)
	if HasBlockBody(fns[0]) {
		t.Error("HasBlockBody() = true for expression-bodied arrow")
	}
	if !HasBlockBody(fns[1]) {
		t.Error("HasBlockBody() = false for function declaration")
	}
}

package java

import (
	"testing"

	"github.com/dhamidi/java2objc/java/parser"
)

func fieldType(t *testing.T, decl string) Type {
	t.Helper()
	cu, err := parser.Parse([]byte("class T { " + decl + " }"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	field := cu.Children[0].FirstChildOfKind(parser.KindBlock).FirstChildOfKind(parser.KindFieldDecl)
	if field == nil {
		t.Fatalf("no field in %q", decl)
	}
	return TypeFromNode(field.Children[1])
}

func TestTypeFromNode(t *testing.T) {
	tests := []struct {
		decl  string
		want  string
		depth int
	}{
		{"int x;", "int", 0},
		{"String s;", "String", 0},
		{"java.util.List<String> l;", "java.util.List<String>", 0},
		{"Map<String, List<Integer>> m;", "Map<String, List<Integer>>", 0},
		{"int[][] grid;", "int[][]", 2},
		{"String names[];", "String[]", 1},
		{"List<? extends Number> nums;", "List<Number>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			got := fieldType(t, tt.decl)
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
			if got.ArrayDepth != tt.depth {
				t.Errorf("ArrayDepth = %d, want %d", got.ArrayDepth, tt.depth)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	if !(Type{Name: "int"}).IsPrimitive() {
		t.Error("int should be primitive")
	}
	if (Type{Name: "int", ArrayDepth: 1}).IsPrimitive() {
		t.Error("int[] should not be primitive")
	}
	if got := (Type{Name: "java.util.List"}).SimpleName(); got != "List" {
		t.Errorf("SimpleName = %q, want %q", got, "List")
	}
	if got := (Type{Name: "int", ArrayDepth: 2}).ElementType(); got.ArrayDepth != 1 {
		t.Errorf("ElementType depth = %d, want 1", got.ArrayDepth)
	}
}

func TestModifiersFromNode(t *testing.T) {
	cu, err := parser.Parse([]byte("class T { @Deprecated protected static final int X = 1; }"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	field := cu.Children[0].FirstChildOfKind(parser.KindBlock).FirstChildOfKind(parser.KindFieldDecl)
	m := ModifiersFromNode(field.FirstChildOfKind(parser.KindModifiers))

	if m.Visibility != VisibilityProtected {
		t.Errorf("Visibility = %q, want %q", m.Visibility, VisibilityProtected)
	}
	if !m.Static || !m.Final {
		t.Errorf("got static=%v final=%v, want both", m.Static, m.Final)
	}
	if len(m.Annotations) != 1 || m.Annotations[0] != "Deprecated" {
		t.Errorf("Annotations = %v, want [Deprecated]", m.Annotations)
	}
}

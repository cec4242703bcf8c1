package java

import (
	"strings"

	"github.com/dhamidi/java2objc/java/parser"
)

// Type is a Java type reference as written in source.
type Type struct {
	// Name is the type name as written, possibly qualified ("java.util.List").
	Name       string
	TypeArgs   []Type
	ArrayDepth int
}

func (t Type) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		sb.WriteString("<")
		for i, arg := range t.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// SimpleName strips any package qualifier.
func (t Type) SimpleName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t Type) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t Type) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t Type) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

// IsVar reports whether t is the inferred local variable type.
func (t Type) IsVar() bool {
	return t.Name == "var" && t.ArrayDepth == 0
}

func (t Type) ElementType() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	return Type{Name: t.Name, TypeArgs: t.TypeArgs, ArrayDepth: t.ArrayDepth - 1}
}

// TypeFromNode decodes a Type, ArrayType or var node. Wildcards decode to
// their bound, or Object when unbounded.
func TypeFromNode(n *parser.Node) Type {
	if n == nil {
		return Type{Name: "void"}
	}
	switch n.Kind {
	case parser.KindArrayType:
		if len(n.Children) == 0 {
			return Type{Name: "Object", ArrayDepth: 1}
		}
		inner := TypeFromNode(n.Children[0])
		inner.ArrayDepth++
		return inner
	case parser.KindWildcard:
		if len(n.Children) == 2 {
			return TypeFromNode(n.Children[1])
		}
		return Type{Name: "Object"}
	case parser.KindType:
		if n.Token != nil {
			return Type{Name: n.Token.Literal}
		}
	}

	var t Type
	var names []string
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindIdentifier:
			names = append(names, child.TokenLiteral())
		case parser.KindQualifiedName:
			names = append(names, QualifiedName(child))
		case parser.KindTypeArguments:
			t.TypeArgs = nil
			for _, arg := range child.Children {
				t.TypeArgs = append(t.TypeArgs, TypeFromNode(arg))
			}
		case parser.KindType, parser.KindArrayType:
			// Catch and cast types group alternatives; the first one names the value.
			if len(names) == 0 {
				return TypeFromNode(child)
			}
		}
	}
	t.Name = strings.Join(names, ".")
	return t
}

// QualifiedName joins the identifiers of a QualifiedName node with dots.
func QualifiedName(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == parser.KindIdentifier {
		return n.TokenLiteral()
	}
	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		parts = append(parts, child.TokenLiteral())
	}
	return strings.Join(parts, ".")
}

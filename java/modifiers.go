package java

import "github.com/dhamidi/java2objc/java/parser"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Modifiers is the decoded form of a Modifiers node.
type Modifiers struct {
	Visibility   Visibility
	Static       bool
	Final        bool
	Abstract     bool
	Default      bool
	Native       bool
	Synchronized bool
	Annotations  []string
}

func ModifiersFromNode(n *parser.Node) Modifiers {
	m := Modifiers{Visibility: VisibilityPackage}
	if n == nil {
		return m
	}
	for _, child := range n.Children {
		if child.Kind == parser.KindAnnotation {
			m.Annotations = append(m.Annotations, QualifiedName(child.FirstChildOfKind(parser.KindQualifiedName)))
			continue
		}
		switch child.TokenLiteral() {
		case "public":
			m.Visibility = VisibilityPublic
		case "protected":
			m.Visibility = VisibilityProtected
		case "private":
			m.Visibility = VisibilityPrivate
		case "static":
			m.Static = true
		case "final":
			m.Final = true
		case "abstract":
			m.Abstract = true
		case "default":
			m.Default = true
		case "native":
			m.Native = true
		case "synchronized":
			m.Synchronized = true
		}
	}
	return m
}

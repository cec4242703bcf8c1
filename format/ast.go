package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/java2objc/java/parser"
)

// ASTEncoder dumps a parse tree as JSON or YAML.
type ASTEncoder struct {
	w    io.Writer
	yaml bool
}

func NewASTEncoder(w io.Writer, format string) *ASTEncoder {
	return &ASTEncoder{w: w, yaml: format == "yaml"}
}

func (e *ASTEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalNode(node)
	return write(e.w, text, err)
}

func (e *ASTEncoder) MarshalNode(node *parser.Node) ([]byte, error) {
	tree := astNodeFrom(node)
	if e.yaml {
		return yaml.Marshal(tree)
	}
	text, err := json.MarshalIndent(tree, "", "  ")
	return append(text, '\n'), err
}

type astNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	At       string     `json:"at,omitempty" yaml:"at,omitempty"`
	Token    string     `json:"token,omitempty" yaml:"token,omitempty"`
	Error    *astError  `json:"error,omitempty" yaml:"error,omitempty"`
	Children []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astError struct {
	Message  string   `json:"message" yaml:"message"`
	Expected []string `json:"expected,omitempty" yaml:"expected,omitempty"`
}

func astNodeFrom(n *parser.Node) *astNode {
	if n == nil {
		return nil
	}
	out := &astNode{Kind: n.Kind.String(), Token: n.TokenLiteral()}
	if start := n.Span.Start; start.Line != 0 {
		out.At = (parser.Position{Line: start.Line, Column: start.Column}).String()
	}
	if n.Error != nil {
		out.Error = &astError{Message: n.Error.Message}
		for _, kind := range n.Error.Expected {
			out.Error.Expected = append(out.Error.Expected, kind.String())
		}
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, astNodeFrom(child))
	}
	return out
}

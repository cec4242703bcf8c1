package translate

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"

	"github.com/dhamidi/java2objc/java/parser"
)

var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
	Is       = crdb.Is
	As       = crdb.As
	Join     = crdb.Join
	Mark     = crdb.Mark
)

var (
	// ErrPrecondition marks invalid input: a file without the .java
	// extension, a malformed option, or a unit declaring no type.
	ErrPrecondition = New("precondition failed")

	// ErrParse marks a compilation unit the parser rejected.
	ErrParse = New("parse failed")

	// ErrUnsupported marks a construct the translator has no mapping for.
	ErrUnsupported = New("unsupported construct")
)

// UnsupportedError reports a construct with no Objective-C mapping.
type UnsupportedError struct {
	Kind string
	Pos  parser.Position
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported %s", e.Pos, e.Kind)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func unsupported(kind string, n *parser.Node) error {
	e := &UnsupportedError{Kind: kind}
	if n != nil {
		e.Pos = n.Span.Start
	}
	return e
}

func unsupportedNode(n *parser.Node) error {
	return unsupported(n.Kind.String(), n)
}

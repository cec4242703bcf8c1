package parser

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// SyntaxError reports every problem found while parsing one file.
type SyntaxError struct {
	File   string
	Errors []*Node
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 0 {
		return "syntax error"
	}
	first := e.Errors[0]
	msg := first.Span.Start.String() + ": " + first.Error.Message
	if len(e.Errors) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Errors)-1)
	}
	return msg
}

// Messages returns one "position: message" line per error.
func (e *SyntaxError) Messages() []string {
	lines := make([]string, 0, len(e.Errors))
	for _, n := range e.Errors {
		lines = append(lines, n.Span.Start.String()+": "+n.Error.Message)
	}
	return lines
}

func (e *SyntaxError) String() string {
	return strings.Join(e.Messages(), "\n")
}

// Parse parses a complete compilation unit.
// The tree is returned even when err is a *SyntaxError.
func Parse(src []byte, opts ...Option) (*Node, error) {
	p := ParseCompilationUnit(bytes.NewReader(src), opts...)
	root := p.Finish()
	if root == nil {
		return nil, fmt.Errorf("parse %s: unreadable input", p.file)
	}

	errs := append(root.Errors(), p.Missing()...)
	if len(errs) == 0 {
		return root, nil
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Span.Start.Offset < errs[j].Span.Start.Offset
	})
	return root, &SyntaxError{File: p.file, Errors: errs}
}

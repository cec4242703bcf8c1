package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/translate"
)

const source = "java2objc"

// Diagnostics converts a translation error into editor diagnostics. Syntax
// errors yield one diagnostic per error node.
func Diagnostics(err error) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}

	var syntaxErr *parser.SyntaxError
	if translate.As(err, &syntaxErr) {
		diags := make([]protocol.Diagnostic, 0, len(syntaxErr.Errors))
		for _, n := range syntaxErr.Errors {
			diags = append(diags, diagnostic(n.Span.Start, n.Span.End, n.Error.Message))
		}
		return diags
	}

	var unsupportedErr *translate.UnsupportedError
	if translate.As(err, &unsupportedErr) {
		return []protocol.Diagnostic{
			diagnostic(unsupportedErr.Pos, unsupportedErr.Pos, "unsupported "+unsupportedErr.Kind),
		}
	}
	return []protocol.Diagnostic{diagnostic(parser.Position{}, parser.Position{}, err.Error())}
}

func diagnostic(start, end parser.Position, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	src := source
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(start),
			End:   position(end),
		},
		Severity: &severity,
		Source:   &src,
		Message:  message,
	}
}

// position maps a 1-based parser position to a 0-based protocol position.
func position(p parser.Position) protocol.Position {
	line, col := p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

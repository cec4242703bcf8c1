package parser

import (
	"testing"
)

func lexKinds(input string) []TokenKind {
	lexer := NewLexer([]byte(input), "test.java")
	var got []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
			got = append(got, tok.Kind)
		}
		if tok.Kind == TokenEOF {
			return got
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"123L", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"0xFF", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"0b1010", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{".5", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"1e10", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"2.0f", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{`"esc\"aped"`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenEOF}},
		{`'\n'`, []TokenKind{TokenCharLiteral, TokenEOF}},
		{"\"\"\"\nHello world\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class", []TokenKind{TokenClass, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"& | ^ ~", []TokenKind{TokenBitAnd, TokenBitOr, TokenBitXor, TokenBitNot, TokenEOF}},
		{"<< >> >>>", []TokenKind{TokenShl, TokenShr, TokenUShr, TokenEOF}},
		{"<<= >>= >>>=", []TokenKind{TokenShlAssign, TokenShrAssign, TokenUShrAssign, TokenEOF}},
		{"+= -= *= /= %=", []TokenKind{TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign, TokenPercentAssign, TokenEOF}},
		{"++ --", []TokenKind{TokenIncrement, TokenDecrement, TokenEOF}},
		{"->", []TokenKind{TokenArrow, TokenEOF}},
		{"::", []TokenKind{TokenColonColon, TokenEOF}},
		{"...", []TokenKind{TokenEllipsis, TokenEOF}},
		{"@", []TokenKind{TokenAt, TokenEOF}},
		{"var x", []TokenKind{TokenVar, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", "\"abc"},
		{"unterminated char", "'a"},
		{"unterminated comment", "/* never closed"},
		{"unterminated text block", "\"\"\"\nabc"},
		{"stray character", "#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexKinds(tt.input)
			if got[0] != TokenError {
				t.Errorf("got %v, want first token Error", got)
			}
		})
	}
}

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("class Foo {}"), "Test.java")
	pos := lexer.Position()

	if pos.File != "Test.java" {
		t.Errorf("File = %q, want %q", pos.File, "Test.java")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("class\n  Foo"), "Test.java")

	tok := lexer.NextToken()
	if tok.Kind != TokenClass {
		t.Fatalf("got %v, want class", tok.Kind)
	}
	lexer.NextToken() // whitespace

	tok = lexer.NextToken()
	if tok.Literal != "Foo" {
		t.Fatalf("got %q, want Foo", tok.Literal)
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 3 {
		t.Errorf("got %s, want Test.java:2:3", tok.Span.Start)
	}
	if got := tok.Span.Start.String(); got != "Test.java:2:3" {
		t.Errorf("got %q, want %q", got, "Test.java:2:3")
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"interface", TokenInterface},
		{"implements", TokenImplements},
		{"synchronized", TokenSynchronized},
		{"true", TokenTrue},
		{"null", TokenNull},
		{"var", TokenVar},
		{"Foo", TokenIdent},
		{"record", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LookupKeyword(tt.input); got != tt.kind {
				t.Errorf("got %v, want %v", got, tt.kind)
			}
		})
	}
}

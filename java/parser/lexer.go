package parser

import "unicode/utf8"

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if isJavaLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanCharLiteral(startPos)
	}

	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(startPos)
		}
		return l.scanStringLiteral(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			// Unterminated comment.
			return l.token(TokenError, start)
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) && isJavaLetterOrDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		return l.scanHexNumber(start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		return l.scanBinaryNumber(start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	} else if l.peek() == '.' && !isJavaLetter(l.peekN(1)) && l.peekN(1) != '.' {
		// 1. is a valid double literal.
		isFloat = true
		l.advance()
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'l', 'L':
		l.advance()
	}

	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanHexNumber(start Position) Token {
	l.advanceN(2)
	for isHexDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'p' || l.peek() == 'P' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if isFloat {
		if l.peek() == 'f' || l.peek() == 'F' || l.peek() == 'd' || l.peek() == 'D' {
			l.advance()
		}
		return l.token(TokenFloatLiteral, start)
	}
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanBinaryNumber(start Position) Token {
	l.advanceN(2)
	for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanCharLiteral(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '\'' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != '\'' {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenCharLiteral, start)
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '"' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != '"' {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for {
		if l.pos >= len(l.input) {
			return l.token(TokenError, start)
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			break
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	return l.token(TokenTextBlock, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '~':
		l.advance()
		return l.token(TokenBitNot, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)

	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '=':
		return l.twoWay('=', TokenEQ, TokenAssign, start)
	case '!':
		return l.twoWay('=', TokenNE, TokenNot, start)
	case '^':
		return l.twoWay('=', TokenXorAssign, TokenBitXor, start)
	case '*':
		return l.twoWay('=', TokenStarAssign, TokenStar, start)
	case '/':
		return l.twoWay('=', TokenSlashAssign, TokenSlash, start)
	case '%':
		return l.twoWay('=', TokenPercentAssign, TokenPercent, start)

	case '<':
		if l.peekN(1) == '<' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShlAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		return l.twoWay('=', TokenLE, TokenLT, start)

	case '>':
		if l.peekN(1) == '>' {
			if l.peekN(2) == '>' {
				if l.peekN(3) == '=' {
					l.advanceN(4)
					return l.token(TokenUShrAssign, start)
				}
				l.advanceN(3)
				return l.token(TokenUShr, start)
			}
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShrAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShr, start)
		}
		return l.twoWay('=', TokenGE, TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		return l.twoWay('=', TokenAndAssign, TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		return l.twoWay('=', TokenOrAssign, TokenBitOr, start)

	case '+':
		if l.peekN(1) == '+' {
			l.advanceN(2)
			return l.token(TokenIncrement, start)
		}
		return l.twoWay('=', TokenPlusAssign, TokenPlus, start)

	case '-':
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(TokenDecrement, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		return l.twoWay('=', TokenMinusAssign, TokenMinus, start)
	}

	// Consume the whole rune so multi-byte garbage yields a single error token.
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return l.token(TokenError, start)
}

// twoWay scans an operator that is either ch followed by next (long) or ch alone (short).
func (l *Lexer) twoWay(next byte, long, short TokenKind, start Position) Token {
	if l.peekN(1) == next {
		l.advanceN(2)
		return l.token(long, start)
	}
	l.advance()
	return l.token(short, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(ch byte) bool {
	if ch >= 128 {
		// Bytes of a multi-byte identifier rune; validated as a whole by the parser.
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetterOrDigit(ch byte) bool {
	return isJavaLetter(ch) || isDigit(ch)
}

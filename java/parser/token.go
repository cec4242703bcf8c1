package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Contextual keywords
	TokenVar

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = [...]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenNull:          "null",
	TokenAbstract:      "abstract",
	TokenAssert:        "assert",
	TokenBoolean:       "boolean",
	TokenBreak:         "break",
	TokenByte:          "byte",
	TokenCase:          "case",
	TokenCatch:         "catch",
	TokenChar:          "char",
	TokenClass:         "class",
	TokenConst:         "const",
	TokenContinue:      "continue",
	TokenDefault:       "default",
	TokenDo:            "do",
	TokenDouble:        "double",
	TokenElse:          "else",
	TokenEnum:          "enum",
	TokenExtends:       "extends",
	TokenFinal:         "final",
	TokenFinally:       "finally",
	TokenFloat:         "float",
	TokenFor:           "for",
	TokenGoto:          "goto",
	TokenIf:            "if",
	TokenImplements:    "implements",
	TokenImport:        "import",
	TokenInstanceof:    "instanceof",
	TokenInt:           "int",
	TokenInterface:     "interface",
	TokenLong:          "long",
	TokenNative:        "native",
	TokenNew:           "new",
	TokenPackage:       "package",
	TokenPrivate:       "private",
	TokenProtected:     "protected",
	TokenPublic:        "public",
	TokenReturn:        "return",
	TokenShort:         "short",
	TokenStatic:        "static",
	TokenStrictfp:      "strictfp",
	TokenSuper:         "super",
	TokenSwitch:        "switch",
	TokenSynchronized:  "synchronized",
	TokenThis:          "this",
	TokenThrow:         "throw",
	TokenThrows:        "throws",
	TokenTransient:     "transient",
	TokenTry:           "try",
	TokenVoid:          "void",
	TokenVolatile:      "volatile",
	TokenWhile:         "while",
	TokenVar:           "var",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenAt:            "@",
	TokenColonColon:    "::",
	TokenAssign:        "=",
	TokenEQ:            "==",
	TokenNE:            "!=",
	TokenLT:            "<",
	TokenLE:            "<=",
	TokenGT:            ">",
	TokenGE:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenBitAnd:        "&",
	TokenBitOr:         "|",
	TokenBitXor:        "^",
	TokenBitNot:        "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenUShr:          ">>>",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenArrow:         "->",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenUShrAssign:    ">>>=",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// keywords maps every reserved word, the literals true, false and null,
// and the contextual var to its kind.
var keywords = func() map[string]TokenKind {
	m := make(map[string]TokenKind, TokenVar-TokenTrue+1)
	for k := TokenTrue; k <= TokenVar; k++ {
		m[tokenKindNames[k]] = k
	}
	return m
}()

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// IsPrimitiveType reports whether kind names one of the eight Java primitive types.
func (k TokenKind) IsPrimitiveType() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

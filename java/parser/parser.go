package parser

import (
	"fmt"
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

type parseFunc func(*Parser) *Node

type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	lexer           *Lexer
	tokens          []Token
	comments        []Token
	pos             int
	entry           parseFunc
	// missing holds expectation failures that did not produce a tree node.
	missing []*Node
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  (*Parser).parseCompilationUnit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  (*Parser).parseExpression,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the whole input and returns the root node.
// It returns nil only when the input cannot be read.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.comments = nil
	p.missing = nil
	p.pos = 0
	p.tokenize()
	return p.entry(p)
}

// Missing returns the expectation failures recorded by the last Finish,
// such as an absent semicolon, that are not part of the returned tree.
func (p *Parser) Missing() []*Node {
	return p.missing
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// accept consumes the next token if it has the given kind.
func (p *Parser) accept(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

// expect is accept that records an error when the token is absent.
func (p *Parser) expect(kind TokenKind) *Token {
	if tok := p.accept(kind); tok != nil {
		return tok
	}
	p.expected(kind)
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	p.expected(TokenIdent)
	return nil
}

func (p *Parser) expected(kinds ...TokenKind) {
	tok := p.peek()
	if n := len(p.missing); n > 0 && p.missing[n-1].Span.Start.Offset == tok.Span.Start.Offset {
		return
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = fmt.Sprintf("%q", k.String())
	}
	p.missing = append(p.missing, &Node{
		Kind: KindError,
		Span: tok.Span,
		Error: &Error{
			Message:  fmt.Sprintf("expected %s, got %q", strings.Join(names, " or "), describe(tok)),
			Expected: kinds,
			Got:      &tok,
		},
	})
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of file"
	}
	return tok.Literal
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	return p.check(TokenIdent) || p.check(TokenVar)
}

type mark struct {
	pos     int
	missing int
}

// mark and reset bracket speculative lookahead.
func (p *Parser) mark() mark {
	return mark{pos: p.pos, missing: len(p.missing)}
}

func (p *Parser) reset(m mark) {
	p.pos = m.pos
	p.missing = p.missing[:m.missing]
}

func tokenNode(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startNodeAt starts a node whose span begins at an already parsed child.
func (p *Parser) startNodeAt(kind NodeKind, first *Node) *Node {
	node := &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
	node.AddChild(first)
	return node
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		if p.match(kinds...) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		// Skip stray semicolons at top level (empty declarations)
		if p.accept(TokenSemicolon) != nil {
			continue
		}
		node.AddChild(p.parseTypeDecl())
	}

	return p.finishNode(node)
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenStatic) {
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
	}

	node.AddChild(p.parseQualifiedName())

	if p.accept(TokenDot) != nil {
		if tok := p.expect(TokenStar); tok != nil {
			node.AddChild(tokenNode(KindIdentifier, *tok))
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	if !p.isIdentifierLike() {
		return p.errorNode("expected identifier", nil, TokenIdent)
	}
	node.AddChild(tokenNode(KindIdentifier, p.advance()))

	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
	}

	return p.finishNode(node)
}

var typeDeclRecovery = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
	TokenClass, TokenInterface, TokenEnum,
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	if len(modifiers.Children) > 0 {
		return p.errorNode("expected class, interface, enum, or @interface", typeDeclRecovery)
	}
	return p.errorNode("expected type declaration", typeDeclRecovery)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault:
			// synchronized ( starts a statement, not a modifier.
			if p.check(TokenSynchronized) && p.peekN(1).Kind == TokenLParen {
				return p.finishNode(node)
			}
			// default : is a switch label.
			if p.check(TokenDefault) && p.peekN(1).Kind == TokenColon {
				return p.finishNode(node)
			}
			node.AddChild(tokenNode(KindIdentifier, p.advance()))
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())

	if p.accept(TokenLParen) != nil {
		if !p.check(TokenRParen) {
			if p.peekN(1).Kind == TokenAssign {
				for {
					progress := p.mustProgress()
					node.AddChild(p.parseAnnotationElement())
					if p.accept(TokenComma) == nil || !progress() {
						break
					}
				}
			} else {
				node.AddChild(p.parseAnnotationValue())
			}
		}
		p.expect(TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	if p.check(TokenAt) {
		return p.parseAnnotation()
	}
	if p.check(TokenLBrace) {
		node := p.startNode(KindArrayInit)
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseAnnotationValue())
			if p.accept(TokenComma) == nil {
				break
			}
		}
		p.expect(TokenRBrace)
		return p.finishNode(node)
	}
	return p.parseTernaryExpr()
}

// parseTypeList parses Type {, Type} into node.
func (p *Parser) parseTypeList(node *Node) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}
}

// ClassDecl children: Modifiers, Identifier, [TypeParameters], [Type (extends)],
// [ImplementsList(Type...)], Block.
func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNode(KindClassDecl)
	node.AddChild(modifiers)

	p.expect(TokenClass)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.accept(TokenExtends) != nil {
		node.AddChild(p.parseType())
	}

	if p.check(TokenImplements) {
		impl := p.startNode(KindImplementsList)
		p.advance()
		p.parseTypeList(impl)
		node.AddChild(p.finishNode(impl))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

// InterfaceDecl children: Modifiers, Identifier, [TypeParameters], Type (extends)..., Block.
func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNode(KindInterfaceDecl)
	node.AddChild(modifiers)

	p.expect(TokenInterface)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.accept(TokenExtends) != nil {
		p.parseTypeList(node)
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNode(KindEnumDecl)
	node.AddChild(modifiers)

	p.expect(TokenEnum)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.accept(TokenImplements) != nil {
		p.parseTypeList(node)
	}

	body := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	for p.isIdentifierLike() || p.check(TokenAt) {
		body.AddChild(p.parseEnumConstant())
		if p.accept(TokenComma) == nil {
			break
		}
	}

	if p.accept(TokenSemicolon) != nil {
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			body.AddChild(p.parseClassMember())
		}
	}

	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNode(KindAnnotationDecl)
	node.AddChild(modifiers)

	p.expect(TokenAt)
	p.expect(TokenInterface)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeParameter())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.expected(TokenGT)
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameter() *Node {
	node := p.startNode(KindTypeParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.accept(TokenExtends) != nil {
		for {
			node.AddChild(p.parseType())
			if p.accept(TokenBitAnd) == nil {
				break
			}
		}
	}

	return p.finishNode(node)
}

// parseType parses a primitive, void, or class type with optional array dimensions.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch {
	case p.peek().Kind.IsPrimitiveType() || p.check(TokenVoid):
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
	case p.check(TokenIdent):
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Parameterized inner class types: Outer<T>.Inner
		for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.advance()
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		return p.errorNode("expected type", []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace}, TokenIdent)
	}
	node = p.finishNode(node)

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := p.startNodeAt(KindArrayType, node)
		p.advance()
		p.advance()
		node = p.finishNode(wrapper)
	}

	return node
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	// Diamond: new ArrayList<>()
	if p.expectGT() {
		return p.finishNode(node)
	}

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeArgument())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	if !p.expectGT() {
		p.expected(TokenGT)
	}
	return p.finishNode(node)
}

// expectGT consumes one '>' splitting compound tokens such as '>>'.
func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitToken(TokenGT)
		return true
	case TokenUShr:
		p.splitToken(TokenShr)
		return true
	case TokenGE:
		p.splitToken(TokenAssign)
		return true
	case TokenShrAssign:
		p.splitToken(TokenGE)
		return true
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
		return true
	}
	return false
}

// splitToken replaces the current token by its remainder after the first byte.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	p.tokens[p.pos] = Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				File:   tok.Span.Start.File,
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
}

func (p *Parser) parseTypeArgument() *Node {
	if p.check(TokenQuestion) {
		return p.parseWildcard()
	}
	return p.parseType()
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseClassMember())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

var memberRecovery = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenNative,
	TokenSynchronized, TokenTransient, TokenVolatile,
	TokenStrictfp, TokenDefault,
	TokenClass, TokenInterface, TokenEnum,
	TokenIdent, TokenVoid, TokenBoolean, TokenByte,
	TokenChar, TokenShort, TokenInt, TokenLong,
	TokenFloat, TokenDouble, TokenLT, TokenRBrace,
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) {
		return p.parseBlock()
	}

	// Static initializer: Block(Identifier static, Block)
	if p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace {
		node := p.startNode(KindBlock)
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	if p.check(TokenSemicolon) {
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}

	typ := p.parseType()
	if typ.IsError() {
		return typ
	}

	if p.isIdentifierLike() {
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, typeParams, typ)
		}
		if typeParams == nil {
			return p.parseField(modifiers, typ)
		}
	}

	return p.errorNode("expected member declaration", memberRecovery)
}

// ConstructorDecl children: Modifiers, [TypeParameters], Identifier, Parameters, [ThrowsList], Block.
func (p *Parser) parseConstructor(modifiers *Node, typeParams *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	node.AddChild(modifiers)
	node.AddChild(typeParams)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	node.AddChild(p.parseConstructorBody())
	return p.finishNode(node)
}

func (p *Parser) parseConstructorBody() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	if p.isExplicitConstructorInvocation() {
		node.AddChild(p.parseExplicitConstructorInvocation())
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseStatement())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) isExplicitConstructorInvocation() bool {
	m := p.mark()
	defer p.reset(m)

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}
	if p.check(TokenThis) || p.check(TokenSuper) {
		p.advance()
		return p.check(TokenLParen)
	}
	return false
}

// ExplicitConstructorInvocation children: [TypeArguments], This|Super, Parameters.
func (p *Parser) parseExplicitConstructorInvocation() *Node {
	node := p.startNode(KindExplicitConstructorInvocation)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	if p.check(TokenThis) {
		node.AddChild(tokenNode(KindThis, p.advance()))
	} else if p.check(TokenSuper) {
		node.AddChild(tokenNode(KindSuper, p.advance()))
	}

	node.AddChild(p.parseArguments())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

// MethodDecl children: Modifiers, [TypeParameters], Type, Identifier, Parameters, [ThrowsList], [Block].
func (p *Parser) parseMethod(modifiers *Node, typeParams *Node, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(returnType)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	node.AddChild(p.parseParameters())

	for p.accept(TokenLBracket) != nil {
		p.expect(TokenRBracket)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else if p.accept(TokenDefault) != nil {
		node.AddChild(p.parseAnnotationValue())
		p.expect(TokenSemicolon)
	} else {
		p.expect(TokenSemicolon)
	}

	return p.finishNode(node)
}

// FieldDecl children: Modifiers, Type, then one VarDeclarator per name.
func (p *Parser) parseField(modifiers *Node, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	node.AddChild(modifiers)
	node.AddChild(typ)
	p.parseDeclarators(node)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseDeclarators parses name [= init] {, name [= init]} into node as
// VarDeclarator[Identifier, init?] children. C-style array brackets after
// the name wrap the declared type.
func (p *Parser) parseDeclarators(node *Node) {
	for {
		progress := p.mustProgress()
		declarator := p.startNode(KindVarDeclarator)
		if tok := p.expectIdentifier(); tok != nil {
			declarator.AddChild(tokenNode(KindIdentifier, *tok))
		}

		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			p.wrapDeclaredType(node)
		}

		if p.accept(TokenAssign) != nil {
			declarator.AddChild(p.parseVarInitializer())
		}
		node.AddChild(p.finishNode(declarator))

		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}
}

// wrapDeclaredType wraps the declaration's type child in an ArrayType.
func (p *Parser) wrapDeclaredType(node *Node) {
	for i, child := range node.Children {
		if child.Kind == KindType || child.Kind == KindArrayType {
			node.Children[i] = &Node{Kind: KindArrayType, Span: child.Span, Children: []*Node{child}}
			return
		}
	}
}

func (p *Parser) parseVarInitializer() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseVarInitializer())
		if p.accept(TokenComma) == nil {
			break
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

// Parameter children: Modifiers, Type, [Identifier "..."], Identifier.
func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseType())

	if p.check(TokenEllipsis) {
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		p.wrapDeclaredType(node)
	}

	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)
	p.parseTypeList(node)
	return p.finishNode(node)
}

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseStatement())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt, TokenBreak)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt, TokenContinue)
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseSynchronizedStmt()
		}
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenClass, TokenInterface, TokenEnum, TokenAbstract:
		return p.parseLocalClassDecl()
	case TokenFinal:
		if p.peekN(1).Kind == TokenClass {
			return p.parseLocalClassDecl()
		}
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
	}
	return p.parseLocalVarOrExprStmt()
}

func (p *Parser) parseLocalVarOrExprStmt() *Node {
	if p.isLocalVarDecl() {
		node := p.parseLocalVarDecl()
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}
	return p.parseExprStmt()
}

func (p *Parser) isLocalVarDecl() bool {
	m := p.mark()
	defer p.reset(m)

	for p.check(TokenAt) || p.check(TokenFinal) {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else {
			p.advance()
		}
	}

	switch {
	case p.peek().Kind.IsPrimitiveType():
		return true
	case p.check(TokenVar):
		return p.peekN(1).Kind == TokenIdent || p.peekN(1).Kind == TokenVar
	case p.check(TokenIdent):
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
			// Outer<T>.Inner
			for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
				p.advance()
				p.parseQualifiedName()
				if p.check(TokenLT) {
					p.skipTypeArguments()
				}
			}
		}
		for p.check(TokenLBracket) {
			p.advance()
			if !p.check(TokenRBracket) {
				return false
			}
			p.advance()
		}
		return p.isIdentifierLike()
	}
	return false
}

func (p *Parser) skipTypeArguments() {
	if !p.check(TokenLT) {
		return
	}
	p.advance()
	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenSemicolon, TokenLBrace, TokenRBrace:
			return
		}
		p.advance()
	}
}

// LocalVarDecl children: Modifiers, Type, then one VarDeclarator per name.
// The var keyword is a Type node carrying the token.
func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) {
		node.AddChild(tokenNode(KindType, p.advance()))
	} else {
		node.AddChild(p.parseType())
	}

	p.parseDeclarators(node)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLocalClassDecl() *Node {
	node := p.startNode(KindLocalClassDecl)
	modifiers := p.parseModifiers()
	switch p.peek().Kind {
	case TokenClass:
		node.AddChild(p.parseClassDecl(modifiers))
	case TokenInterface:
		node.AddChild(p.parseInterfaceDecl(modifiers))
	case TokenEnum:
		node.AddChild(p.parseEnumDecl(modifiers))
	default:
		node.AddChild(p.errorNode("expected class declaration", []TokenKind{TokenSemicolon, TokenRBrace}))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenCond(node *Node) {
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	p.parseParenCond(node)
	node.AddChild(p.parseStatement())

	if p.accept(TokenElse) != nil {
		node.AddChild(p.parseStatement())
	}

	return p.finishNode(node)
}

// ForStmt children: ForInit, [condition], ForUpdate, body.
func (p *Parser) parseForStmt() *Node {
	start := p.peek().Span.Start
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		node := p.parseEnhancedForStmt()
		node.Span.Start = start
		return node
	}

	node := &Node{Kind: KindForStmt, Span: Span{Start: start}}

	initNode := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			initNode.AddChild(p.parseLocalVarDecl())
		} else {
			p.parseExpressionList(initNode)
		}
	}
	node.AddChild(p.finishNode(initNode))
	p.expect(TokenSemicolon)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	updateNode := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		p.parseExpressionList(updateNode)
	}
	node.AddChild(p.finishNode(updateNode))
	p.expect(TokenRParen)

	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(node *Node) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}
}

func (p *Parser) isEnhancedFor() bool {
	m := p.mark()
	defer p.reset(m)

	for p.check(TokenAt) || p.check(TokenFinal) {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else {
			p.advance()
		}
	}

	switch {
	case p.peek().Kind.IsPrimitiveType() || p.check(TokenVar):
		p.advance()
	case p.check(TokenIdent):
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
	default:
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if p.check(TokenRBracket) {
			p.advance()
		}
	}

	if !p.isIdentifierLike() {
		return false
	}
	p.advance()
	return p.check(TokenColon)
}

// EnhancedForStmt children: Modifiers, Type, Identifier, iterable, body.
func (p *Parser) parseEnhancedForStmt() *Node {
	node := p.startNode(KindEnhancedForStmt)

	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) {
		node.AddChild(tokenNode(KindType, p.advance()))
	} else {
		node.AddChild(p.parseType())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	p.expect(TokenColon)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())

	return p.finishNode(node)
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	p.parseParenCond(node)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

// DoStmt children: body, condition.
func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseStatement())
	p.expect(TokenWhile)
	p.parseParenCond(node)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// SwitchStmt children: selector, SwitchCase...
func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	p.parseParenCond(node)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseSwitchCase())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// SwitchCase children: SwitchLabel..., statements...
func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	if !p.check(TokenCase) && !p.check(TokenDefault) {
		p.expected(TokenCase, TokenDefault)
	}
	for p.check(TokenCase) || p.check(TokenDefault) {
		node.AddChild(p.parseSwitchLabel())
	}

	for !p.check(TokenCase) && !p.check(TokenDefault) && !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

// SwitchLabel children: the case expression, or nothing for default.
func (p *Parser) parseSwitchLabel() *Node {
	node := p.startNode(KindSwitchLabel)

	if p.accept(TokenCase) != nil {
		node.AddChild(p.parseTernaryExpr())
	} else {
		node.Token = p.expect(TokenDefault)
	}

	p.expect(TokenColon)
	return p.finishNode(node)
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// parseJumpStmt parses break and continue with an optional label.
func (p *Parser) parseJumpStmt(kind NodeKind, keyword TokenKind) *Node {
	node := p.startNode(kind)
	p.expect(keyword)

	if tok := p.accept(TokenIdent); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

// TryStmt children: [LocalVarDecl resources...], Block, CatchClause..., [FinallyClause].
func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)

	if p.accept(TokenLParen) != nil {
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseResource())
			p.accept(TokenSemicolon)
			if !progress() {
				break
			}
		}
		p.expect(TokenRParen)
	}

	node.AddChild(p.parseBlock())

	for p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}

	if p.check(TokenFinally) {
		node.AddChild(p.parseFinallyClause())
	}

	if len(node.ChildrenOfKind(KindCatchClause)) == 0 && node.FirstChildOfKind(KindFinallyClause) == nil &&
		node.FirstChildOfKind(KindLocalVarDecl) == nil {
		p.expected(TokenCatch, TokenFinally)
	}

	return p.finishNode(node)
}

func (p *Parser) parseResource() *Node {
	if p.isLocalVarDecl() {
		node := p.startNode(KindLocalVarDecl)
		node.AddChild(p.parseModifiers())
		if p.check(TokenVar) {
			node.AddChild(tokenNode(KindType, p.advance()))
		} else {
			node.AddChild(p.parseType())
		}
		if tok := p.expectIdentifier(); tok != nil {
			node.AddChild(tokenNode(KindIdentifier, *tok))
		}
		if p.expect(TokenAssign) != nil {
			node.AddChild(p.parseExpression())
		}
		return p.finishNode(node)
	}
	return p.parseExpression()
}

// CatchClause children: Modifiers, Type(Type...), Identifier, Block.
func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)

	node.AddChild(p.parseModifiers())

	typeNode := p.startNode(KindType)
	typeNode.AddChild(p.parseType())
	for p.accept(TokenBitOr) != nil {
		typeNode.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(typeNode))

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	p.expect(TokenRParen)
	node.AddChild(p.parseBlock())

	return p.finishNode(node)
}

func (p *Parser) parseFinallyClause() *Node {
	node := p.startNode(KindFinallyClause)
	p.expect(TokenFinally)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	p.parseParenCond(node)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddChild(p.parseExpression())

	if p.accept(TokenColon) != nil {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(tokenNode(KindIdentifier, p.advance()))
	p.expect(TokenColon)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpression() *Node {
	return p.parseAssignmentExpr()
}

func (p *Parser) parseAssignmentExpr() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()

	if p.isAssignOp() {
		node := p.startNodeAt(KindAssignExpr, left)
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
		node.AddChild(p.parseAssignmentExpr())
		return p.finishNode(node)
	}

	return left
}

func (p *Parser) isAssignOp() bool {
	switch p.peek().Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) isLambda() bool {
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenArrow {
		return true
	}

	if !p.check(TokenLParen) {
		return false
	}

	m := p.mark()
	defer p.reset(m)
	p.advance()
	depth := 1

	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenSemicolon, TokenLBrace:
			return false
		}
		p.advance()
	}

	return p.check(TokenArrow)
}

// LambdaExpr children: Parameters, Block|expression.
func (p *Parser) parseLambdaExpr() *Node {
	node := p.startNode(KindLambdaExpr)

	if p.isIdentifierLike() {
		params := p.startNode(KindParameters)
		params.AddChild(tokenNode(KindIdentifier, p.advance()))
		node.AddChild(p.finishNode(params))
	} else {
		params := p.startNode(KindParameters)
		p.expect(TokenLParen)
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if p.isIdentifierLike() && (p.peekN(1).Kind == TokenComma || p.peekN(1).Kind == TokenRParen) {
				params.AddChild(tokenNode(KindIdentifier, p.advance()))
			} else {
				params.AddChild(p.parseParameter())
			}
			if p.accept(TokenComma) == nil || !progress() {
				break
			}
		}
		p.expect(TokenRParen)
		node.AddChild(p.finishNode(params))
	}

	p.expect(TokenArrow)

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else {
		node.AddChild(p.parseExpression())
	}

	return p.finishNode(node)
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseBinaryExpr(0)

	if p.check(TokenQuestion) {
		node := p.startNodeAt(KindTernaryExpr, cond)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenColon)
		if p.isLambda() {
			node.AddChild(p.parseLambdaExpr())
		} else {
			node.AddChild(p.parseTernaryExpr())
		}
		return p.finishNode(node)
	}

	return cond
}

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]TokenKind{
	{TokenOr},
	{TokenAnd},
	{TokenBitOr},
	{TokenBitXor},
	{TokenBitAnd},
	{TokenEQ, TokenNE},
	{TokenLT, TokenLE, TokenGT, TokenGE, TokenInstanceof},
	{TokenShl, TokenShr, TokenUShr},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

func (p *Parser) parseBinaryExpr(level int) *Node {
	if level == len(binaryLevels) {
		return p.parseUnaryExpr()
	}

	left := p.parseBinaryExpr(level + 1)

	for p.match(binaryLevels[level]...) {
		progress := p.mustProgress()
		if p.check(TokenInstanceof) {
			// InstanceofExpr children: expression, Type, [Identifier binding].
			node := p.startNodeAt(KindInstanceofExpr, left)
			p.advance()
			node.AddChild(p.parseType())
			if tok := p.accept(TokenIdent); tok != nil {
				node.AddChild(tokenNode(KindIdentifier, *tok))
			}
			left = p.finishNode(node)
		} else {
			node := p.startNodeAt(KindBinaryExpr, left)
			node.AddChild(tokenNode(KindIdentifier, p.advance()))
			node.AddChild(p.parseBinaryExpr(level + 1))
			left = p.finishNode(node)
		}
		if !progress() {
			break
		}
	}

	return left
}

func (p *Parser) parseUnaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement, TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		node := p.startNode(KindUnaryExpr)
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixExpr()
}

func (p *Parser) isCast() bool {
	if !p.check(TokenLParen) {
		return false
	}

	m := p.mark()
	defer p.reset(m)
	p.advance()

	if p.peek().Kind.IsPrimitiveType() {
		p.advance()
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
		}
		return p.check(TokenRParen)
	}

	if !p.check(TokenIdent) {
		return false
	}
	p.parseQualifiedName()
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}
	// Intersection types: (Type & Type2)
	for p.accept(TokenBitAnd) != nil {
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
	}
	if p.accept(TokenRParen) == nil {
		return false
	}
	switch p.peek().Kind {
	case TokenIdent, TokenVar, TokenThis, TokenSuper, TokenNew,
		TokenLParen, TokenNot, TokenBitNot,
		TokenIntLiteral, TokenFloatLiteral,
		TokenCharLiteral, TokenStringLiteral,
		TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

// CastExpr children: Type(Type...), expression.
func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect(TokenLParen)

	typeNode := p.startNode(KindType)
	typeNode.AddChild(p.parseType())
	for p.accept(TokenBitAnd) != nil {
		typeNode.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(typeNode))

	p.expect(TokenRParen)
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseUnaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimaryExpr()
	return p.parsePostfixSuffix(expr)
}

func (p *Parser) parsePostfixSuffix(expr *Node) *Node {
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			node := p.startNodeAt(KindPostfixExpr, expr)
			node.AddChild(tokenNode(KindIdentifier, p.advance()))
			expr = p.finishNode(node)
		case TokenDot:
			p.advance()
			expr = p.parseDotSuffix(expr)
		case TokenLBracket:
			if p.peekN(1).Kind == TokenRBracket {
				if result := p.tryParseArrayClassLiteral(expr); result != nil {
					expr = result
					continue
				}
			}
			node := p.startNodeAt(KindArrayAccess, expr)
			p.advance()
			node.AddChild(p.parseExpression())
			p.expect(TokenRBracket)
			expr = p.finishNode(node)
		case TokenLParen:
			expr = p.parseMethodCall(expr)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

// parseDotSuffix parses what follows a '.' after expr.
func (p *Parser) parseDotSuffix(expr *Node) *Node {
	switch {
	case p.check(TokenNew):
		return p.parseInnerNewExpr(expr)
	case p.check(TokenLT):
		// Explicit generic invocation: Collections.<T>emptyList()
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(p.parseTypeArguments())
		if tok := p.expectIdentifier(); tok != nil {
			node.AddChild(tokenNode(KindIdentifier, *tok))
		}
		expr = p.finishNode(node)
		if p.check(TokenLParen) {
			expr = p.parseMethodCall(expr)
		}
		return expr
	case p.check(TokenClass):
		node := p.startNodeAt(KindClassLiteral, expr)
		p.advance()
		return p.finishNode(node)
	case p.check(TokenThis):
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(tokenNode(KindThis, p.advance()))
		return p.finishNode(node)
	case p.check(TokenSuper):
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(tokenNode(KindSuper, p.advance()))
		return p.finishNode(node)
	case p.isIdentifierLike():
		node := p.startNodeAt(KindFieldAccess, expr)
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
		return p.finishNode(node)
	}
	return p.errorNode("expected identifier after '.'", nil, TokenIdent)
}

// CallExpr children: target, Parameters (the arguments).
func (p *Parser) parseMethodCall(target *Node) *Node {
	node := p.startNodeAt(KindCallExpr, target)
	node.AddChild(p.parseArguments())
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if p.accept(TokenComma) == nil || !progress() {
			break
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseMethodRef(target *Node) *Node {
	node := p.startNodeAt(KindMethodRef, target)
	p.expect(TokenColonColon)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	if p.check(TokenNew) {
		node.AddChild(tokenNode(KindIdentifier, p.advance()))
	} else if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	return p.finishNode(node)
}

func (p *Parser) parsePrimaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		return tokenNode(KindLiteral, p.advance())

	case TokenThis:
		return tokenNode(KindThis, p.advance())

	case TokenSuper:
		return tokenNode(KindSuper, p.advance())

	case TokenNew:
		return p.parseNewExpr()

	case TokenLParen:
		return p.parseParenExpr()

	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return p.parsePrimitiveClassLiteral()

	default:
		if p.isIdentifierLike() {
			return tokenNode(KindIdentifier, p.advance())
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})
	}
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(KindParenExpr)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseNewExpr parses class instance creation and array creation.
//
//	NewExpr children:      Type, Parameters, [Block anonymous body]
//	NewArrayExpr children: Type (element), dimension expressions..., [ArrayInit]
//
// NewArrayExpr records the total dimension count in its token literal.
func (p *Parser) parseNewExpr() *Node {
	start := p.peek().Span.Start
	p.expect(TokenNew)

	if p.check(TokenLT) {
		p.parseTypeArguments()
	}

	typeNode := p.startNode(KindType)
	switch {
	case p.peek().Kind.IsPrimitiveType():
		typeNode.AddChild(tokenNode(KindIdentifier, p.advance()))
	case p.check(TokenIdent):
		typeNode.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			typeNode.AddChild(p.parseTypeArguments())
		}
	default:
		return p.errorNode("expected type after new", []TokenKind{TokenSemicolon, TokenRParen}, TokenIdent)
	}
	typeNode = p.finishNode(typeNode)

	if p.check(TokenLBracket) {
		node := &Node{Kind: KindNewArrayExpr, Span: Span{Start: start}}
		node.AddChild(typeNode)
		dims := 0
		for p.check(TokenLBracket) {
			progress := p.mustProgress()
			p.advance()
			if !p.check(TokenRBracket) {
				node.AddChild(p.parseExpression())
			}
			p.expect(TokenRBracket)
			dims++
			if !progress() {
				break
			}
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseArrayInitializer())
		}
		node.Token = &Token{Kind: TokenIntLiteral, Literal: fmt.Sprint(dims)}
		return p.finishNode(node)
	}

	node := &Node{Kind: KindNewExpr, Span: Span{Start: start}}
	node.AddChild(typeNode)
	node.AddChild(p.parseArguments())

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

// parseInnerNewExpr parses outer.new Inner(...), children: outer, Identifier, Parameters, [Block].
func (p *Parser) parseInnerNewExpr(outer *Node) *Node {
	node := p.startNodeAt(KindNewExpr, outer)
	p.expect(TokenNew)

	if p.check(TokenLT) {
		p.parseTypeArguments()
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(tokenNode(KindIdentifier, *tok))
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	node.AddChild(p.parseArguments())

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parsePrimitiveClassLiteral() *Node {
	node := p.startNode(KindClassLiteral)
	typeNode := p.startNode(KindType)
	typeNode.AddChild(tokenNode(KindIdentifier, p.advance()))
	typeNode = p.finishNode(typeNode)

	for p.check(TokenLBracket) {
		wrapper := p.startNodeAt(KindArrayType, typeNode)
		p.advance()
		p.expect(TokenRBracket)
		typeNode = p.finishNode(wrapper)
	}

	node.AddChild(typeNode)
	p.expect(TokenDot)
	p.expect(TokenClass)
	return p.finishNode(node)
}

// tryParseArrayClassLiteral parses String[].class.
// It returns nil with the position unchanged when the brackets start something else.
func (p *Parser) tryParseArrayClassLiteral(baseExpr *Node) *Node {
	m := p.mark()

	typeNode := baseExpr
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := p.startNodeAt(KindArrayType, typeNode)
		p.advance()
		p.advance()
		typeNode = p.finishNode(wrapper)
	}

	if p.check(TokenDot) && p.peekN(1).Kind == TokenClass {
		p.advance()
		p.advance()
		node := p.startNodeAt(KindClassLiteral, typeNode)
		return p.finishNode(node)
	}

	p.reset(m)
	return nil
}

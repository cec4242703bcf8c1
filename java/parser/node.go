package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindEnumConstant
	KindAnnotationDecl

	// Members
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindExplicitConstructorInvocation

	// Type and modifiers
	KindModifiers
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindArrayType
	KindWildcard
	KindAnnotation
	KindAnnotationElement

	// Method components
	KindParameters
	KindParameter
	KindThrowsList
	KindImplementsList

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindVarDeclarator
	KindLocalClassDecl

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindMethodRef
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindLiteral
	KindIdentifier
	KindQualifiedName
	KindThis
	KindSuper
	KindClassLiteral
)

var nodeKindNames = map[NodeKind]string{
	KindError:                         "Error",
	KindCompilationUnit:               "CompilationUnit",
	KindPackageDecl:                   "PackageDecl",
	KindImportDecl:                    "ImportDecl",
	KindClassDecl:                     "ClassDecl",
	KindInterfaceDecl:                 "InterfaceDecl",
	KindEnumDecl:                      "EnumDecl",
	KindEnumConstant:                  "EnumConstant",
	KindAnnotationDecl:                "AnnotationDecl",
	KindFieldDecl:                     "FieldDecl",
	KindMethodDecl:                    "MethodDecl",
	KindConstructorDecl:               "ConstructorDecl",
	KindExplicitConstructorInvocation: "ExplicitConstructorInvocation",
	KindModifiers:                     "Modifiers",
	KindTypeParameters:                "TypeParameters",
	KindTypeParameter:                 "TypeParameter",
	KindTypeArguments:                 "TypeArguments",
	KindType:                          "Type",
	KindArrayType:                     "ArrayType",
	KindWildcard:                      "Wildcard",
	KindAnnotation:                    "Annotation",
	KindAnnotationElement:             "AnnotationElement",
	KindParameters:                    "Parameters",
	KindParameter:                     "Parameter",
	KindThrowsList:                    "ThrowsList",
	KindImplementsList:                "ImplementsList",
	KindBlock:                         "Block",
	KindEmptyStmt:                     "EmptyStmt",
	KindExprStmt:                      "ExprStmt",
	KindIfStmt:                        "IfStmt",
	KindForStmt:                       "ForStmt",
	KindForInit:                       "ForInit",
	KindForUpdate:                     "ForUpdate",
	KindEnhancedForStmt:               "EnhancedForStmt",
	KindWhileStmt:                     "WhileStmt",
	KindDoStmt:                        "DoStmt",
	KindSwitchStmt:                    "SwitchStmt",
	KindSwitchCase:                    "SwitchCase",
	KindSwitchLabel:                   "SwitchLabel",
	KindReturnStmt:                    "ReturnStmt",
	KindBreakStmt:                     "BreakStmt",
	KindContinueStmt:                  "ContinueStmt",
	KindThrowStmt:                     "ThrowStmt",
	KindTryStmt:                       "TryStmt",
	KindCatchClause:                   "CatchClause",
	KindFinallyClause:                 "FinallyClause",
	KindSynchronizedStmt:              "SynchronizedStmt",
	KindAssertStmt:                    "AssertStmt",
	KindLabeledStmt:                   "LabeledStmt",
	KindLocalVarDecl:                  "LocalVarDecl",
	KindVarDeclarator:                 "VarDeclarator",
	KindLocalClassDecl:                "LocalClassDecl",
	KindAssignExpr:                    "AssignExpr",
	KindTernaryExpr:                   "TernaryExpr",
	KindBinaryExpr:                    "BinaryExpr",
	KindUnaryExpr:                     "UnaryExpr",
	KindPostfixExpr:                   "PostfixExpr",
	KindCastExpr:                      "CastExpr",
	KindInstanceofExpr:                "InstanceofExpr",
	KindCallExpr:                      "CallExpr",
	KindMethodRef:                     "MethodRef",
	KindFieldAccess:                   "FieldAccess",
	KindArrayAccess:                   "ArrayAccess",
	KindNewExpr:                       "NewExpr",
	KindNewArrayExpr:                  "NewArrayExpr",
	KindArrayInit:                     "ArrayInit",
	KindLambdaExpr:                    "LambdaExpr",
	KindParenExpr:                     "ParenExpr",
	KindLiteral:                       "Literal",
	KindIdentifier:                    "Identifier",
	KindQualifiedName:                 "QualifiedName",
	KindThis:                          "This",
	KindSuper:                         "Super",
	KindClassLiteral:                  "ClassLiteral",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// FirstChildOfKind returns the first direct child of kind. It is nil-safe.
func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n != nil && n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Errors returns every error node in the tree rooted at n.
func (n *Node) Errors() []*Node {
	var errs []*Node
	n.Walk(func(node *Node) bool {
		if node.IsError() {
			errs = append(errs, node)
		}
		return true
	})
	return errs
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

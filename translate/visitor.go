package translate

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

var log = commonlog.GetLogger("java2objc.translate")

// TranslateVisitor walks a parsed compilation unit and feeds the primary
// type it declares into the context's builder. It keeps no state of its
// own, so one visitor serves any number of units.
type TranslateVisitor struct{}

// Visit translates cu into ctx. Constructs without an Objective-C mapping
// fail the unit with an *UnsupportedError; error nodes fail it with ErrParse.
func (v TranslateVisitor) Visit(cu *parser.Node, ctx *GeneratorContext) error {
	if cu == nil || cu.Kind != parser.KindCompilationUnit {
		return Wrapf(ErrPrecondition, "%s: not a compilation unit", ctx.file)
	}
	if errs := cu.Errors(); len(errs) > 0 {
		return Mark(&parser.SyntaxError{File: ctx.file, Errors: errs}, ErrParse)
	}

	var primary *parser.Node
	for _, child := range cu.Children {
		switch child.Kind {
		case parser.KindPackageDecl:
			ctx.pkg = java.QualifiedName(child.FirstChildOfKind(parser.KindQualifiedName))
		case parser.KindImportDecl:
			v.visitImport(child, ctx)
		case parser.KindClassDecl, parser.KindInterfaceDecl:
			if primary != nil {
				return unsupported("additional top-level type", child)
			}
			primary = child
		case parser.KindEnumDecl:
			return unsupported("enum", child)
		case parser.KindAnnotationDecl:
			return unsupported("annotation type", child)
		case parser.KindEmptyStmt:
		default:
			return unsupportedNode(child)
		}
	}
	if primary == nil {
		return nil
	}
	return v.visitType(primary, ctx)
}

// visitImport makes the imported simple name resolvable. Library imports
// need no header; anything else becomes a pending reference.
func (v TranslateVisitor) visitImport(n *parser.Node, ctx *GeneratorContext) {
	var static, onDemand bool
	for _, child := range n.Children {
		if child.Kind != parser.KindIdentifier {
			continue
		}
		switch child.TokenLiteral() {
		case "static":
			static = true
		case "*":
			onDemand = true
		}
	}
	if static || onDemand {
		return
	}
	qualified := java.QualifiedName(n.FirstChildOfKind(parser.KindQualifiedName))
	simple := simpleName(qualified)
	ctx.imported[simple] = qualified
	if strings.HasPrefix(qualified, "java.") || strings.HasPrefix(qualified, "javax.") {
		return
	}
	ctx.addImport(ctx.mapper.Class(simple))
}

func (v TranslateVisitor) visitType(decl *parser.Node, ctx *GeneratorContext) error {
	table := scanMembers(decl)
	if table.name == "" {
		return unsupported("anonymous type declaration", decl)
	}
	b := ctx.declareType(table)
	iface := decl.Kind == parser.KindInterfaceDecl
	log.Debugf("%s: translating %s", ctx.file, table.name)

	if iface {
		b.SetIsInterface(true)
		for _, ext := range decl.ChildrenOfKind(parser.KindType) {
			b.AddProtocol(v.protocolType(ctx, java.TypeFromNode(ext)))
		}
	} else {
		if ext := decl.FirstChildOfKind(parser.KindType); ext != nil {
			b.AddBaseClass(ctx.classType(java.TypeFromNode(ext).Name))
		}
		for _, impl := range decl.FirstChildOfKind(parser.KindImplementsList).ChildrenOfKind(parser.KindType) {
			b.AddProtocol(v.protocolType(ctx, java.TypeFromNode(impl)))
		}
	}

	body := decl.FirstChildOfKind(parser.KindBlock)
	if body == nil {
		return nil
	}
	for _, member := range body.Children {
		var err error
		switch member.Kind {
		case parser.KindFieldDecl:
			err = v.visitField(member, ctx, iface)
		case parser.KindMethodDecl:
			err = v.visitMethod(member, ctx, iface)
		case parser.KindConstructorDecl:
			err = v.visitConstructor(member, ctx)
		case parser.KindBlock:
			err = v.visitInitializer(member, ctx)
		case parser.KindEmptyStmt:
		case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl, parser.KindAnnotationDecl:
			err = unsupported("nested type", member)
		default:
			err = unsupportedNode(member)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// protocolType resolves an implemented or extended interface. A name the
// batch does not declare is taken to be a protocol.
func (v TranslateVisitor) protocolType(ctx *GeneratorContext, t java.Type) *objc.Type {
	proto := ctx.mapper.Class(t.Name)
	if proto.IsReference() && !proto.IsInterfaceLike() {
		proto = objc.NewProtocolReference(proto.Name())
	}
	ctx.addImport(proto)
	return proto
}

func visibility(v java.Visibility) objc.Visibility {
	switch v {
	case java.VisibilityPublic:
		return objc.VisibilityPublic
	case java.VisibilityProtected:
		return objc.VisibilityProtected
	case java.VisibilityPrivate:
		return objc.VisibilityPrivate
	}
	return objc.VisibilityPackage
}

func (v TranslateVisitor) visitField(n *parser.Node, ctx *GeneratorContext, iface bool) error {
	mods := java.ModifiersFromNode(n.FirstChildOfKind(parser.KindModifiers))
	typ := java.TypeFromNode(n.Children[1])
	ref := ctx.mapType(typ)

	proto := objc.Field{
		Type:       ref,
		Visibility: visibility(mods.Visibility),
		Static:     mods.Static,
		Final:      mods.Final,
	}
	if iface {
		proto.Visibility = objc.VisibilityPublic
		proto.Static = true
		proto.Final = true
	}

	for _, decl := range n.ChildrenOfKind(parser.KindVarDeclarator) {
		f := proto
		f.Name = declaratorName(decl)
		if init := declaratorInit(decl); init != nil {
			ctx.enterMethod(&methodState{static: f.Static})
			val, err := v.initializer(ctx, init, typ)
			ctx.leaveMethod()
			if err != nil {
				return err
			}
			f.Init = val.text
			f.Constant = f.Static && isLiteral(init)
		}
		ctx.builder.AddField(f)
	}
	return nil
}

func isLiteral(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindLiteral:
		return true
	case parser.KindParenExpr:
		return isLiteral(n.Children[0])
	case parser.KindUnaryExpr:
		return len(n.Children) == 2 && n.Children[1].Kind == parser.KindLiteral &&
			(n.Children[0].TokenLiteral() == "-" || n.Children[0].TokenLiteral() == "+")
	}
	return false
}

func (v TranslateVisitor) params(ctx *GeneratorContext, n *parser.Node) []objc.Param {
	var params []objc.Param
	for _, param := range n.ChildrenOfKind(parser.KindParameter) {
		p := decodeParam(param)
		params = append(params, objc.Param{Name: p.name, Type: ctx.mapType(p.typ)})
	}
	return params
}

func (v TranslateVisitor) declareParams(ctx *GeneratorContext, n *parser.Node) {
	for _, param := range n.ChildrenOfKind(parser.KindParameter) {
		p := decodeParam(param)
		ctx.declareLocal(p.name, p.typ)
	}
}

func (v TranslateVisitor) visitMethod(n *parser.Node, ctx *GeneratorContext, iface bool) error {
	mods := java.ModifiersFromNode(n.FirstChildOfKind(parser.KindModifiers))
	if tp := n.FirstChildOfKind(parser.KindTypeParameters); tp != nil {
		return unsupported("generic method", tp)
	}
	body := n.FirstChildOfKind(parser.KindBlock)
	if iface {
		switch {
		case mods.Default:
			return unsupported("default interface method", n)
		case mods.Static:
			return unsupported("static interface method", n)
		case body != nil:
			return unsupported("interface method body", body)
		}
	}

	var result java.Type
	if typ := n.FirstChildOfKind(parser.KindType); typ != nil {
		result = java.TypeFromNode(typ)
	} else {
		result = java.TypeFromNode(n.FirstChildOfKind(parser.KindArrayType))
	}
	params := n.FirstChildOfKind(parser.KindParameters)

	m := objc.Method{
		Name:       n.FirstChildOfKind(parser.KindIdentifier).TokenLiteral(),
		Params:     v.params(ctx, params),
		Return:     ctx.mapType(result),
		Visibility: visibility(mods.Visibility),
		Static:     mods.Static,
		Abstract:   mods.Abstract || (iface && body == nil),
	}
	if iface {
		m.Visibility = objc.VisibilityPublic
	}

	if body != nil && !m.Abstract {
		ctx.enterMethod(&methodState{static: m.Static, result: result})
		v.declareParams(ctx, params)
		block, err := v.block(ctx, body)
		ctx.leaveMethod()
		if err != nil {
			return err
		}
		m.Body = block
	}
	ctx.builder.AddMethod(m)
	return nil
}

func (v TranslateVisitor) visitConstructor(n *parser.Node, ctx *GeneratorContext) error {
	mods := java.ModifiersFromNode(n.FirstChildOfKind(parser.KindModifiers))
	if tp := n.FirstChildOfKind(parser.KindTypeParameters); tp != nil {
		return unsupported("generic constructor", tp)
	}
	if name := n.FirstChildOfKind(parser.KindIdentifier).TokenLiteral(); name != ctx.typeName() {
		return unsupported("method without return type", n)
	}
	params := n.FirstChildOfKind(parser.KindParameters)
	m := objc.Method{
		Name:        "init",
		Params:      v.params(ctx, params),
		Return:      objc.ObjectRef(objc.ID),
		Visibility:  visibility(mods.Visibility),
		Constructor: true,
	}

	ctx.enterMethod(&methodState{constructor: true})
	defer ctx.leaveMethod()
	v.declareParams(ctx, params)

	body := n.FirstChildOfKind(parser.KindBlock)
	stmts := body.Children
	if len(stmts) > 0 && stmts[0].Kind == parser.KindExplicitConstructorInvocation {
		call, err := v.explicitInvocation(ctx, stmts[0])
		if err != nil {
			return err
		}
		m.InitCall = call
		stmts = stmts[1:]
	}
	block, err := v.statements(ctx, stmts)
	if err != nil {
		return err
	}
	m.Body = block
	ctx.builder.AddMethod(m)
	return nil
}

// explicitInvocation renders this(...) or super(...) as the initializer
// message the constructor starts with.
func (v TranslateVisitor) explicitInvocation(ctx *GeneratorContext, n *parser.Node) (string, error) {
	if targs := n.FirstChildOfKind(parser.KindTypeArguments); targs != nil {
		return "", unsupported("explicit type arguments", targs)
	}
	args, err := v.args(ctx, n.FirstChildOfKind(parser.KindParameters))
	if err != nil {
		return "", err
	}

	if n.FirstChildOfKind(parser.KindThis) != nil {
		return send("self", v.constructorKeywords(ctx.unit, len(args)), args), nil
	}

	super := ctx.unit.super
	if super != "" && ctx.mapper.Class(super) == objc.NSException && ctx.members(super) == nil {
		reason := "nil"
		if len(args) > 0 {
			reason = args[0]
		}
		return `[super initWithName:@"` + ctx.typeName() + `" reason:` + reason + ` userInfo:nil]`, nil
	}
	return send("super", v.constructorKeywords(ctx.members(super), len(args)), args), nil
}

// constructorKeywords picks the initializer selector of a type for a given
// number of arguments.
func (v TranslateVisitor) constructorKeywords(table *memberTable, arity int) []string {
	if info, ok := table.constructor(arity); ok {
		return objc.SelectorKeywords("init", true, info.params)
	}
	return genericKeywords("init", true, arity)
}

func (v TranslateVisitor) visitInitializer(n *parser.Node, ctx *GeneratorContext) error {
	static := false
	block := n
	if len(n.Children) == 2 && n.Children[0].Kind == parser.KindIdentifier &&
		n.Children[0].TokenLiteral() == "static" && n.Children[1].Kind == parser.KindBlock {
		static = true
		block = n.Children[1]
	}
	ctx.enterMethod(&methodState{static: static})
	defer ctx.leaveMethod()
	translated, err := v.block(ctx, block)
	if err != nil {
		return err
	}
	ctx.builder.AddInitializer(translated, static)
	return nil
}

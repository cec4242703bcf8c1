package translate

import (
	"strings"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

func (v TranslateVisitor) block(ctx *GeneratorContext, n *parser.Node) (*objc.Block, error) {
	return v.statements(ctx, n.Children)
}

// statements translates a statement list in a fresh local scope.
func (v TranslateVisitor) statements(ctx *GeneratorContext, nodes []*parser.Node) (*objc.Block, error) {
	ctx.pushScope()
	defer ctx.popScope()

	block := &objc.Block{}
	for _, n := range nodes {
		stmts, err := v.stmt(ctx, n)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmts...)
	}
	return block, nil
}

// body translates the body of a compound statement.
func (v TranslateVisitor) body(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	if n.Kind == parser.KindBlock {
		return v.block(ctx, n)
	}
	ctx.pushScope()
	defer ctx.popScope()
	stmts, err := v.stmt(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return &objc.Block{Stmts: stmts}, nil
}

func (v TranslateVisitor) condition(ctx *GeneratorContext, n *parser.Node) (string, error) {
	val, err := v.expr(ctx, n)
	if err != nil {
		return "", err
	}
	return unboxed(val), nil
}

func (v TranslateVisitor) stmt(ctx *GeneratorContext, n *parser.Node) ([]objc.Stmt, error) {
	one := func(s objc.Stmt, err error) ([]objc.Stmt, error) {
		if err != nil {
			return nil, err
		}
		return []objc.Stmt{s}, nil
	}

	switch n.Kind {
	case parser.KindBlock:
		return one(v.block(ctx, n))
	case parser.KindEmptyStmt:
		return nil, nil
	case parser.KindLocalVarDecl:
		return v.localVars(ctx, n)
	case parser.KindExprStmt:
		val, err := v.expr(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		return one(&objc.ExprStmt{Expr: val.text}, nil)
	case parser.KindIfStmt:
		return one(v.ifStmt(ctx, n))
	case parser.KindForStmt:
		return one(v.forStmt(ctx, n))
	case parser.KindEnhancedForStmt:
		return one(v.forEach(ctx, n))
	case parser.KindWhileStmt:
		cond, err := v.condition(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		body, err := v.body(ctx, n.Children[1])
		return one(&objc.While{Cond: cond, Body: body}, err)
	case parser.KindDoStmt:
		body, err := v.body(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		cond, err := v.condition(ctx, n.Children[1])
		return one(&objc.DoWhile{Body: body, Cond: cond}, err)
	case parser.KindSwitchStmt:
		return one(v.switchStmt(ctx, n))
	case parser.KindReturnStmt:
		return one(v.returnStmt(ctx, n))
	case parser.KindBreakStmt:
		if len(n.Children) > 0 {
			return nil, unsupported("labeled break", n)
		}
		return one(&objc.Break{}, nil)
	case parser.KindContinueStmt:
		if len(n.Children) > 0 {
			return nil, unsupported("labeled continue", n)
		}
		return one(&objc.Continue{}, nil)
	case parser.KindThrowStmt:
		val, err := v.expr(ctx, n.Children[0])
		return one(&objc.Throw{Expr: val.text}, err)
	case parser.KindTryStmt:
		return one(v.tryStmt(ctx, n))
	case parser.KindSynchronizedStmt:
		lock, err := v.expr(ctx, n.Children[0])
		if err != nil {
			return nil, err
		}
		body, err := v.block(ctx, n.Children[1])
		return one(&objc.Synchronized{Lock: lock.text, Body: body}, err)
	case parser.KindAssertStmt:
		return nil, unsupported("assert", n)
	case parser.KindLabeledStmt:
		return nil, unsupported("labeled statement", n)
	case parser.KindLocalClassDecl:
		return nil, unsupported("local class", n)
	}
	return nil, unsupportedNode(n)
}

// localVars declares each declarator of a local variable declaration.
func (v TranslateVisitor) localVars(ctx *GeneratorContext, n *parser.Node) ([]objc.Stmt, error) {
	declared := java.TypeFromNode(n.Children[1])
	var stmts []objc.Stmt
	for _, decl := range n.ChildrenOfKind(parser.KindVarDeclarator) {
		name := declaratorName(decl)
		typ := declared
		d := &objc.VarDecl{Name: name}
		if init := declaratorInit(decl); init != nil {
			val, err := v.initializer(ctx, init, declared)
			if err != nil {
				return nil, err
			}
			d.Init = val.text
			if declared.IsVar() {
				typ = val.typ
			}
		}
		switch {
		case typ.IsVar() || typ.Name == "" || typ.Name == "null":
			d.Type = "__auto_type"
		default:
			d.Type = ctx.mapType(typ).String()
		}
		ctx.declareLocal(name, typ)
		stmts = append(stmts, d)
	}
	return stmts, nil
}

// declarationText renders a local variable declaration inline, for
// the init clause of a for loop.
func (v TranslateVisitor) declarationText(ctx *GeneratorContext, n *parser.Node) (string, error) {
	stmts, err := v.localVars(ctx, n)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, s := range stmts {
		d := s.(*objc.VarDecl)
		if i == 0 {
			sb.WriteString(objc.JoinDecl(d.Type, d.Name))
		} else {
			sb.WriteString(", " + d.Name)
		}
		if d.Init != "" {
			sb.WriteString(" = " + d.Init)
		}
	}
	return sb.String(), nil
}

func (v TranslateVisitor) ifStmt(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	cond, err := v.condition(ctx, n.Children[0])
	if err != nil {
		return nil, err
	}
	then, err := v.body(ctx, n.Children[1])
	if err != nil {
		return nil, err
	}
	s := &objc.If{Cond: cond, Then: then}
	if len(n.Children) > 2 {
		if s.Else, err = v.body(ctx, n.Children[2]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (v TranslateVisitor) forStmt(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	ctx.pushScope()
	defer ctx.popScope()

	s := &objc.For{}
	for _, child := range n.Children[:len(n.Children)-1] {
		switch child.Kind {
		case parser.KindForInit:
			var parts []string
			for _, init := range child.Children {
				if init.Kind == parser.KindLocalVarDecl {
					text, err := v.declarationText(ctx, init)
					if err != nil {
						return nil, err
					}
					parts = append(parts, text)
					continue
				}
				val, err := v.expr(ctx, init)
				if err != nil {
					return nil, err
				}
				parts = append(parts, val.text)
			}
			s.Init = strings.Join(parts, ", ")
		case parser.KindForUpdate:
			var parts []string
			for _, update := range child.Children {
				val, err := v.expr(ctx, update)
				if err != nil {
					return nil, err
				}
				parts = append(parts, val.text)
			}
			s.Update = strings.Join(parts, ", ")
		default:
			cond, err := v.condition(ctx, child)
			if err != nil {
				return nil, err
			}
			s.Cond = cond
		}
	}
	body, err := v.body(ctx, n.Children[len(n.Children)-1])
	if err != nil {
		return nil, err
	}
	s.Body = body
	return s, nil
}

// forEach maps an enhanced for to fast enumeration. Primitive elements are
// enumerated boxed and unboxed into the loop variable.
func (v TranslateVisitor) forEach(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	var typeNode *parser.Node
	for _, child := range n.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			typeNode = child
			break
		}
	}
	elem := java.TypeFromNode(typeNode)
	name := n.FirstChildOfKind(parser.KindIdentifier).TokenLiteral()
	coll, err := v.expr(ctx, n.Children[len(n.Children)-2])
	if err != nil {
		return nil, err
	}
	if elem.IsVar() {
		switch {
		case coll.typ.IsArray():
			elem = coll.typ.ElementType()
		case len(coll.typ.TypeArgs) > 0:
			elem = coll.typ.TypeArgs[0]
		default:
			elem = typeObject
		}
	}
	collection := coll.text
	if collectionKind(coll.typ) == "map" {
		collection = "[" + coll.text + " allKeys]"
	}

	ctx.pushScope()
	defer ctx.popScope()
	ctx.declareLocal(name, elem)
	body, err := v.body(ctx, n.Children[len(n.Children)-1])
	if err != nil {
		return nil, err
	}

	if elem.IsPrimitive() {
		boxed := name + "Boxed"
		unbox := &objc.VarDecl{
			Type: ctx.mapType(elem).String(),
			Name: name,
			Init: "[" + boxed + " " + unboxSelector(elem.Name) + "]",
		}
		stmts := []objc.Stmt{unbox}
		if b, ok := body.(*objc.Block); ok {
			stmts = append(stmts, b.Stmts...)
		} else {
			stmts = append(stmts, body)
		}
		ctx.addImport(objc.NSNumber)
		return &objc.ForIn{Type: "NSNumber *", Name: boxed, Collection: collection, Body: &objc.Block{Stmts: stmts}}, nil
	}
	return &objc.ForIn{Type: ctx.mapType(elem).String(), Name: name, Collection: collection, Body: body}, nil
}

func (v TranslateVisitor) switchStmt(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	tag, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return nil, err
	}
	if isStringType(tag.typ) {
		return nil, unsupported("switch on strings", n.Children[0])
	}

	s := &objc.Switch{Tag: unboxed(tag)}
	ctx.pushScope()
	defer ctx.popScope()
	for _, group := range n.ChildrenOfKind(parser.KindSwitchCase) {
		var c objc.Case
		for _, child := range group.Children {
			if child.Kind != parser.KindSwitchLabel {
				stmts, err := v.stmt(ctx, child)
				if err != nil {
					return nil, err
				}
				c.Body = append(c.Body, stmts...)
				continue
			}
			if len(child.Children) == 0 {
				continue
			}
			for _, labelNode := range child.Children {
				label, err := v.expr(ctx, labelNode)
				if err != nil {
					return nil, err
				}
				if label.isLit || isStringType(label.typ) {
					return nil, unsupported("switch on strings", labelNode)
				}
				c.Labels = append(c.Labels, label.text)
			}
		}
		s.Cases = append(s.Cases, c)
	}
	return s, nil
}

func (v TranslateVisitor) returnStmt(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	if len(n.Children) == 0 {
		if ctx.inConstructor() {
			return &objc.Return{Expr: "self"}, nil
		}
		return &objc.Return{}, nil
	}
	val, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return nil, err
	}
	text := val.text
	if ctx.method != nil {
		text = coerce(val, ctx.method.result)
	}
	return &objc.Return{Expr: text}, nil
}

func (v TranslateVisitor) tryStmt(ctx *GeneratorContext, n *parser.Node) (objc.Stmt, error) {
	if res := n.FirstChildOfKind(parser.KindLocalVarDecl); res != nil {
		return nil, unsupported("try-with-resources", res)
	}
	s := &objc.Try{}
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindBlock:
			body, err := v.block(ctx, child)
			if err != nil {
				return nil, err
			}
			s.Body = body
		case parser.KindCatchClause:
			c, err := v.catchClause(ctx, child)
			if err != nil {
				return nil, err
			}
			s.Catches = append(s.Catches, c)
		case parser.KindFinallyClause:
			body, err := v.block(ctx, child.FirstChildOfKind(parser.KindBlock))
			if err != nil {
				return nil, err
			}
			s.Finally = body
		}
	}
	return s, nil
}

// catchClause maps catch (E e) to @catch (E *e). A multi-catch names the
// common Foundation type when every alternative maps to it.
func (v TranslateVisitor) catchClause(ctx *GeneratorContext, n *parser.Node) (objc.Catch, error) {
	group := n.FirstChildOfKind(parser.KindType)
	alternatives := group.ChildrenOfKind(parser.KindType)
	if len(alternatives) == 0 {
		alternatives = []*parser.Node{group}
	}

	typ := java.TypeFromNode(alternatives[0])
	ref := ctx.mapType(typ)
	for _, alt := range alternatives[1:] {
		if other := ctx.mapType(java.TypeFromNode(alt)); other.Object != ref.Object {
			ref = objc.ObjectRef(objc.NSException)
			typ = java.Type{Name: "Throwable"}
		}
	}

	name := n.FirstChildOfKind(parser.KindIdentifier).TokenLiteral()
	ctx.pushScope()
	defer ctx.popScope()
	ctx.declareLocal(name, typ)
	body, err := v.block(ctx, n.FirstChildOfKind(parser.KindBlock))
	if err != nil {
		return objc.Catch{}, err
	}
	return objc.Catch{Type: ref.String(), Name: name, Body: body}, nil
}

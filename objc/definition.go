package objc

import "strings"

// RenderDefinition renders the .m file for t.
func RenderDefinition(t *Type) string {
	p := newPrinter()
	writeBanner(p, t.ImplFileName())
	p.line(`#import "%s"`, t.HeaderFileName())
	p.newline()

	if t.interfaceLike {
		writeProtocolDefinition(p, t)
		return p.String()
	}

	writeStaticStorage(p, t)
	writeClassExtension(p, t)

	p.line("@implementation %s", t.name)
	p.newline()

	if initializer := classInitializer(t); initializer != nil {
		writeMethod(p, t, *initializer)
	}
	if needsSynthesizedInit(t) {
		writeMethod(p, t, Method{Name: "init", Constructor: true, Visibility: VisibilityPublic})
	}
	for _, m := range t.methods {
		if isClassInitializer(m) {
			continue
		}
		writeMethod(p, t, m)
	}
	p.line("@end")
	return p.String()
}

func writeProtocolDefinition(p *printer, t *Type) {
	var dynamic []Field
	for _, f := range t.fields {
		if !f.Constant {
			dynamic = append(dynamic, f)
		}
	}
	if len(dynamic) == 0 {
		return
	}
	for _, f := range dynamic {
		p.line("%s;", f.Type.Declare(f.GlobalName(t.name)))
	}
	p.newline()
	p.line("__attribute__((constructor)) static void %s_initialize(void)", t.name)
	p.line("{")
	p.indent++
	for _, f := range dynamic {
		p.line("%s = %s;", f.GlobalName(t.name), f.Init)
	}
	p.indent--
	p.line("}")
}

func writeStaticStorage(p *printer, t *Type) {
	wrote := false
	for _, f := range t.fields {
		if !f.Static {
			continue
		}
		value := f.Type.ZeroValue()
		if f.Constant {
			value = f.Init
		}
		decl := f.Type.Declare(f.GlobalName(t.name)) + " = " + value + ";"
		if f.Visibility == VisibilityPrivate {
			decl = "static " + decl
		}
		p.line("%s", decl)
		wrote = true
	}
	if wrote {
		p.newline()
	}
}

func writeClassExtension(p *printer, t *Type) {
	var private []Method
	for _, m := range t.methods {
		if m.Visibility == VisibilityPrivate && !isClassInitializer(m) {
			private = append(private, m)
		}
	}
	if len(private) == 0 {
		return
	}
	p.line("@interface %s ()", t.name)
	p.newline()
	for _, m := range private {
		p.line("%s;", m.Declaration())
	}
	p.newline()
	p.line("@end")
	p.newline()
}

// classInitializer merges static field initializers and static blocks into
// one +initialize, or returns nil when there is nothing to run.
func classInitializer(t *Type) *Method {
	var body []Stmt
	for _, f := range t.fields {
		if f.Static && !f.Constant && f.Init != "" {
			body = append(body, &ExprStmt{Expr: f.GlobalName(t.name) + " = " + f.Init})
		}
	}
	for _, block := range t.staticInit {
		body = append(body, block.Stmts...)
	}
	for _, m := range t.methods {
		if isClassInitializer(m) && m.Body != nil {
			body = append(body, m.Body.Stmts...)
		}
	}
	if len(body) == 0 {
		return nil
	}
	guard := &If{
		Cond: "self == [" + t.name + " class]",
		Then: &Block{Stmts: body},
	}
	return &Method{
		Name:       "initialize",
		Static:     true,
		Return:     Void,
		Visibility: VisibilityPublic,
		Body:       &Block{Stmts: []Stmt{guard}},
	}
}

func needsSynthesizedInit(t *Type) bool {
	for _, m := range t.methods {
		if m.Constructor {
			return false
		}
	}
	if len(t.instanceInit) > 0 {
		return true
	}
	for _, f := range t.fields {
		if !f.Static && f.Init != "" {
			return true
		}
	}
	return false
}

func writeMethod(p *printer, t *Type, m Method) {
	p.line("%s", m.Declaration())
	p.line("{")
	p.indent++
	switch {
	case m.Constructor:
		writeConstructorBody(p, t, m)
	case m.Abstract || m.Body == nil:
		p.line("[self doesNotRecognizeSelector:_cmd];")
		if zero := m.Return.ZeroValue(); zero != "" {
			p.line("return %s;", zero)
		}
	default:
		p.printStmts(m.Body.Stmts)
	}
	p.indent--
	p.line("}")
	p.newline()
}

func writeConstructorBody(p *printer, t *Type, m Method) {
	call := m.InitCall
	if call == "" {
		call = "[super init]"
	}
	p.line("self = %s;", call)
	p.line("if (self) {")
	p.indent++
	// A sibling initializer already ran the field initializers.
	if !strings.HasPrefix(call, "[self ") {
		for _, f := range t.fields {
			if !f.Static && f.Init != "" {
				p.line("%s = %s;", f.Name, f.Init)
			}
		}
		for _, block := range t.instanceInit {
			p.printStmt(block)
		}
	}
	if m.Body != nil {
		p.printStmts(m.Body.Stmts)
	}
	p.indent--
	p.line("}")
	p.line("return self;")
}

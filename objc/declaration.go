package objc

import "strings"

var visibilityOrder = []Visibility{
	VisibilityPublic,
	VisibilityProtected,
	VisibilityPackage,
	VisibilityPrivate,
}

func writeBanner(p *printer, fileName string) {
	p.line("// %s", fileName)
	p.line("// Generated by java2objc. Do not edit.")
	p.newline()
}

// headerImports lists every type the declaration depends on: imports, the
// base type and adopted protocols.
func headerImports(t *Type) []*Type {
	deps := []*Type{t.Base()}
	deps = append(deps, t.protocols...)
	deps = append(deps, t.imports...)
	var result []*Type
	for _, d := range sortedImports(deps) {
		if d.Name() != t.name {
			result = append(result, d)
		}
	}
	return result
}

func writeImports(p *printer, types []*Type) {
	seen := map[string]bool{}
	for _, dep := range types {
		directive := dep.ImportDirective()
		if seen[directive] {
			continue
		}
		seen[directive] = true
		p.line("%s", directive)
	}
}

// RenderDeclaration renders the .h file for t.
func RenderDeclaration(t *Type) string {
	p := newPrinter()
	writeBanner(p, t.HeaderFileName())
	writeImports(p, headerImports(t))
	p.blank()

	if t.interfaceLike {
		writeProtocolDeclaration(p, t)
	} else {
		writeClassDeclaration(p, t)
	}
	return p.String()
}

func protocolList(protocols []*Type) string {
	names := make([]string, len(protocols))
	for i, proto := range protocols {
		names[i] = proto.Name()
	}
	return strings.Join(names, ", ")
}

func writeClassDeclaration(p *printer, t *Type) {
	decl := "@interface " + t.name + " : " + t.Base().Name()
	if len(t.protocols) > 0 {
		decl += " <" + protocolList(t.protocols) + ">"
	}
	p.line("%s", decl)

	writeIvars(p, t)
	p.blank()

	wrote := false
	for _, m := range t.methods {
		if m.Visibility == VisibilityPrivate || isClassInitializer(m) {
			continue
		}
		p.line("%s;", m.Declaration())
		wrote = true
	}
	if wrote {
		p.blank()
	}
	p.line("@end")

	var externs []Field
	for _, f := range t.fields {
		if f.Static && f.Visibility != VisibilityPrivate {
			externs = append(externs, f)
		}
	}
	if len(externs) > 0 {
		p.newline()
		for _, f := range externs {
			p.line("extern %s;", f.Type.Declare(f.GlobalName(t.name)))
		}
	}
}

func writeIvars(p *printer, t *Type) {
	byVisibility := map[Visibility][]Field{}
	count := 0
	for _, f := range t.fields {
		if f.Static {
			continue
		}
		v := f.Visibility
		if v == "" {
			v = VisibilityPackage
		}
		byVisibility[v] = append(byVisibility[v], f)
		count++
	}
	if count == 0 {
		return
	}

	p.line("{")
	for _, v := range visibilityOrder {
		fields := byVisibility[v]
		if len(fields) == 0 {
			continue
		}
		p.line("%s", v.Directive())
		p.indent++
		for _, f := range fields {
			p.line("%s;", f.Type.Declare(f.Name))
		}
		p.indent--
	}
	p.line("}")
}

func writeProtocolDeclaration(p *printer, t *Type) {
	adopted := []string{"NSObject"}
	for _, proto := range t.protocols {
		adopted = append(adopted, proto.Name())
	}
	p.line("@protocol %s <%s>", t.name, strings.Join(adopted, ", "))
	p.newline()

	for _, m := range t.methods {
		p.line("%s;", m.Declaration())
	}
	if len(t.methods) > 0 {
		p.newline()
	}
	p.line("@end")

	if len(t.fields) > 0 {
		p.newline()
	}
	for _, f := range t.fields {
		name := f.GlobalName(t.name)
		if f.Constant {
			p.line("static %s const %s = %s;", f.Type.String(), name, f.Init)
		} else {
			p.line("extern %s;", f.Type.Declare(name))
		}
	}
}

// isClassInitializer reports whether m is the synthesized +initialize.
func isClassInitializer(m Method) bool {
	return m.Static && m.Name == "initialize" && len(m.Params) == 0
}

package translate

import (
	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/java/parser"
)

// memberTable is the signature-only view of a declared type: enough to pick
// selectors and result types for calls made from any unit of the batch.
type memberTable struct {
	name          string
	interfaceLike bool
	super         string
	interfaces    []string
	typeParams    map[string]bool
	fields        map[string]fieldInfo
	methods       map[string][]methodInfo
	ctors         []methodInfo
}

type fieldInfo struct {
	typ    java.Type
	static bool
}

type methodInfo struct {
	params     []string
	paramTypes []java.Type
	result     java.Type
	static     bool
}

// method picks the overload of name taking arity arguments.
func (m *memberTable) method(name string, arity int) (methodInfo, bool) {
	if m == nil {
		return methodInfo{}, false
	}
	for _, info := range m.methods[name] {
		if len(info.params) == arity {
			return info, true
		}
	}
	return methodInfo{}, false
}

func (m *memberTable) constructor(arity int) (methodInfo, bool) {
	if m == nil {
		return methodInfo{}, false
	}
	for _, info := range m.ctors {
		if len(info.params) == arity {
			return info, true
		}
	}
	return methodInfo{}, false
}

// supertypes lists the declared superclass first, then the interfaces.
func (m *memberTable) supertypes() []string {
	if m.super == "" {
		return m.interfaces
	}
	return append([]string{m.super}, m.interfaces...)
}

// primaryType returns the first type declaration of a compilation unit.
func primaryType(cu *parser.Node) *parser.Node {
	if cu == nil {
		return nil
	}
	for _, child := range cu.Children {
		switch child.Kind {
		case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl, parser.KindAnnotationDecl:
			return child
		}
	}
	return nil
}

// scanMembers collects the member signatures of a class or interface
// declaration without translating any body.
func scanMembers(decl *parser.Node) *memberTable {
	table := &memberTable{
		name:          decl.FirstChildOfKind(parser.KindIdentifier).TokenLiteral(),
		interfaceLike: decl.Kind == parser.KindInterfaceDecl,
		typeParams:    typeParamNames(decl.FirstChildOfKind(parser.KindTypeParameters)),
		fields:        make(map[string]fieldInfo),
		methods:       make(map[string][]methodInfo),
	}
	if decl.Kind == parser.KindClassDecl {
		if ext := decl.FirstChildOfKind(parser.KindType); ext != nil {
			table.super = java.TypeFromNode(ext).SimpleName()
		}
		for _, impl := range decl.FirstChildOfKind(parser.KindImplementsList).ChildrenOfKind(parser.KindType) {
			table.interfaces = append(table.interfaces, java.TypeFromNode(impl).SimpleName())
		}
	} else {
		for _, ext := range decl.ChildrenOfKind(parser.KindType) {
			table.interfaces = append(table.interfaces, java.TypeFromNode(ext).SimpleName())
		}
	}

	body := decl.FirstChildOfKind(parser.KindBlock)
	if body == nil {
		return table
	}
	for _, member := range body.Children {
		switch member.Kind {
		case parser.KindFieldDecl:
			mods := java.ModifiersFromNode(member.FirstChildOfKind(parser.KindModifiers))
			typ := java.TypeFromNode(member.Children[1])
			for _, decl := range member.ChildrenOfKind(parser.KindVarDeclarator) {
				table.fields[declaratorName(decl)] = fieldInfo{
					typ:    typ,
					static: mods.Static || table.interfaceLike,
				}
			}
		case parser.KindMethodDecl:
			mods := java.ModifiersFromNode(member.FirstChildOfKind(parser.KindModifiers))
			info := methodInfo{static: mods.Static}
			if typ := member.FirstChildOfKind(parser.KindType); typ != nil {
				info.result = java.TypeFromNode(typ)
			} else if typ := member.FirstChildOfKind(parser.KindArrayType); typ != nil {
				info.result = java.TypeFromNode(typ)
			}
			info.params, info.paramTypes = paramSignature(member.FirstChildOfKind(parser.KindParameters))
			name := member.FirstChildOfKind(parser.KindIdentifier).TokenLiteral()
			table.methods[name] = append(table.methods[name], info)
		case parser.KindConstructorDecl:
			info := methodInfo{result: java.Type{Name: table.name}}
			info.params, info.paramTypes = paramSignature(member.FirstChildOfKind(parser.KindParameters))
			table.ctors = append(table.ctors, info)
		}
	}
	return table
}

func paramSignature(params *parser.Node) ([]string, []java.Type) {
	if params == nil {
		return nil, nil
	}
	var names []string
	var types []java.Type
	for _, param := range params.ChildrenOfKind(parser.KindParameter) {
		p := decodeParam(param)
		names = append(names, p.name)
		types = append(types, p.typ)
	}
	return names, types
}

type javaParam struct {
	name    string
	typ     java.Type
	varargs bool
}

// decodeParam reads Parameter[Modifiers, Type, "..."?, Identifier]. A
// varargs parameter is typed as an array.
func decodeParam(n *parser.Node) javaParam {
	var p javaParam
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			p.typ = java.TypeFromNode(child)
		case parser.KindIdentifier:
			if child.TokenLiteral() == "..." {
				p.varargs = true
				continue
			}
			p.name = child.TokenLiteral()
		}
	}
	if p.varargs {
		p.typ.ArrayDepth++
	}
	return p
}

func typeParamNames(n *parser.Node) map[string]bool {
	names := make(map[string]bool)
	if n == nil {
		return names
	}
	for _, param := range n.Children {
		if id := param.FirstChildOfKind(parser.KindIdentifier); id != nil {
			names[id.TokenLiteral()] = true
		} else if param.Kind == parser.KindIdentifier {
			names[param.TokenLiteral()] = true
		}
	}
	return names
}

func declaratorName(n *parser.Node) string {
	return n.FirstChildOfKind(parser.KindIdentifier).TokenLiteral()
}

// declaratorInit returns the initializer of a VarDeclarator, or nil.
func declaratorInit(n *parser.Node) *parser.Node {
	if len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

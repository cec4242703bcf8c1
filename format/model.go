package format

import "github.com/dhamidi/java2objc/objc"

type typeModel struct {
	Name      string        `json:"name" yaml:"name"`
	Kind      string        `json:"kind" yaml:"kind"`
	Base      string        `json:"base,omitempty" yaml:"base,omitempty"`
	Protocols []string      `json:"protocols,omitempty" yaml:"protocols,omitempty"`
	Imports   []string      `json:"imports,omitempty" yaml:"imports,omitempty"`
	Fields    []fieldModel  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods   []methodModel `json:"methods,omitempty" yaml:"methods,omitempty"`
	Header    string        `json:"header" yaml:"header"`
	Impl      string        `json:"impl" yaml:"impl"`
}

type fieldModel struct {
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"`
	Visibility string   `json:"visibility" yaml:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Init       string   `json:"init,omitempty" yaml:"init,omitempty"`
}

type methodModel struct {
	Selector   string       `json:"selector" yaml:"selector"`
	Returns    string       `json:"returns" yaml:"returns"`
	Parameters []paramModel `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Visibility string       `json:"visibility" yaml:"visibility"`
	Modifiers  []string     `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

type paramModel struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

func buildModel(t *objc.Type) typeModel {
	m := typeModel{
		Name:   t.Name(),
		Kind:   "class",
		Header: t.HeaderFileName(),
		Impl:   t.ImplFileName(),
	}
	if t.IsInterfaceLike() {
		m.Kind = "protocol"
	} else {
		m.Base = t.Base().Name()
	}
	for _, p := range t.Protocols() {
		m.Protocols = append(m.Protocols, p.Name())
	}
	for _, imp := range t.Imports() {
		m.Imports = append(m.Imports, imp.Name())
	}
	for _, f := range t.Fields() {
		m.Fields = append(m.Fields, fieldModel{
			Name:       f.Name,
			Type:       f.Type.String(),
			Visibility: string(f.Visibility),
			Modifiers:  fieldModifiers(f),
			Init:       f.Init,
		})
	}
	for _, method := range t.Methods() {
		mm := methodModel{
			Selector:   method.Selector(),
			Returns:    method.ReturnType(),
			Visibility: string(method.Visibility),
			Modifiers:  methodModifiers(method),
		}
		for _, p := range method.Params {
			mm.Parameters = append(mm.Parameters, paramModel{Name: p.Name, Type: p.Type.String()})
		}
		m.Methods = append(m.Methods, mm)
	}
	return m
}

func fieldModifiers(f objc.Field) []string {
	var mods []string
	if f.Static {
		mods = append(mods, "static")
	}
	if f.Final {
		mods = append(mods, "final")
	}
	if f.Constant {
		mods = append(mods, "constant")
	}
	return mods
}

func methodModifiers(m objc.Method) []string {
	var mods []string
	if m.Static {
		mods = append(mods, "static")
	}
	if m.Constructor {
		mods = append(mods, "constructor")
	}
	if m.Abstract {
		mods = append(mods, "abstract")
	}
	return mods
}

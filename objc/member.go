package objc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Directive returns the ivar section keyword, e.g. "@public".
func (v Visibility) Directive() string {
	if v == "" {
		return "@package"
	}
	return "@" + string(v)
}

type Param struct {
	Name string
	Type TypeRef
}

// Method describes one method or initializer.
type Method struct {
	Name        string
	Params      []Param
	Return      TypeRef
	Visibility  Visibility
	Static      bool
	Constructor bool
	Abstract    bool
	// InitCall is the rendered superclass or sibling initializer message a
	// constructor starts with. Empty means [super init].
	InitCall string
	Body     *Block
}

// Signature is the uniqueness key of m: name plus parameter types.
func (m Method) Signature() string {
	var sb strings.Builder
	if m.Static {
		sb.WriteString("+")
	}
	if m.Constructor {
		sb.WriteString("<init>")
	} else {
		sb.WriteString(m.Name)
	}
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.Type.Key())
	}
	sb.WriteString(")")
	return sb.String()
}

// Selector returns the Objective-C selector of m, e.g. "add:to:" or "initWithX:y:".
func (m Method) Selector() string {
	return Selector(m.Name, m.Constructor, paramNames(m.Params))
}

// Selector builds a selector from a method name and its parameter names.
func Selector(name string, constructor bool, params []string) string {
	keywords := SelectorKeywords(name, constructor, params)
	if len(params) == 0 {
		return keywords[0]
	}
	return strings.Join(keywords, ":") + ":"
}

// SelectorKeywords returns one keyword per parameter, or the bare name when
// there are none.
func SelectorKeywords(name string, constructor bool, params []string) []string {
	if constructor {
		name = "init"
		if len(params) > 0 {
			name = "initWith" + capitalize(params[0])
		}
	}
	if len(params) == 0 {
		return []string{name}
	}
	keywords := make([]string, len(params))
	keywords[0] = name
	copy(keywords[1:], params[1:])
	return keywords
}

func paramNames(params []Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ReturnType is the declared result; constructors return instancetype.
func (m Method) ReturnType() string {
	if m.Constructor {
		return "instancetype"
	}
	return m.Return.String()
}

// Declaration renders the method prototype without a terminator,
// e.g. "- (int)add:(int)a to:(int)b".
func (m Method) Declaration() string {
	var sb strings.Builder
	if m.Static {
		sb.WriteString("+ (")
	} else {
		sb.WriteString("- (")
	}
	sb.WriteString(m.ReturnType())
	sb.WriteString(")")

	keywords := SelectorKeywords(m.Name, m.Constructor, paramNames(m.Params))
	if len(m.Params) == 0 {
		sb.WriteString(keywords[0])
		return sb.String()
	}
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(keywords[i])
		sb.WriteString(":(")
		sb.WriteString(p.Type.String())
		sb.WriteString(")")
		sb.WriteString(p.Name)
	}
	return sb.String()
}

// Field describes an instance variable or a static variable.
type Field struct {
	Name       string
	Type       TypeRef
	Visibility Visibility
	Static     bool
	Final      bool
	// Init is the rendered initializer expression, if any.
	Init string
	// Constant reports whether Init is a compile-time literal that can
	// initialize static storage directly.
	Constant bool
}

// GlobalName is the C identifier backing a static field of owner.
func (f Field) GlobalName(owner string) string {
	return owner + "_" + f.Name
}

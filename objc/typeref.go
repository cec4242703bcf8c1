package objc

import "strings"

// TypeRef is the type of a value: a C scalar or a pointer to an object type.
type TypeRef struct {
	// Scalar is the C type name, empty for object types.
	Scalar string
	Object *Type
}

var (
	Void     = Scalar("void")
	Int      = Scalar("int")
	LongLong = Scalar("long long")
	Float    = Scalar("float")
	Double   = Scalar("double")
	Bool     = Scalar("BOOL")
	Unichar  = Scalar("unichar")
)

func Scalar(name string) TypeRef {
	return TypeRef{Scalar: name}
}

func ObjectRef(t *Type) TypeRef {
	return TypeRef{Object: t}
}

func (r TypeRef) IsVoid() bool {
	return r.Object == nil && r.Scalar == "void"
}

func (r TypeRef) IsObject() bool {
	return r.Object != nil
}

// String renders the type as it appears in a declaration: "int",
// "NSString *", "id" or "id<Shape>".
func (r TypeRef) String() string {
	if r.Object == nil {
		if r.Scalar == "" {
			return "void"
		}
		return r.Scalar
	}
	switch {
	case r.Object == ID:
		return "id"
	case r.Object.IsInterfaceLike():
		return "id<" + r.Object.Name() + ">"
	}
	return r.Object.Name() + " *"
}

// Declare renders a variable declaration of this type.
func (r TypeRef) Declare(name string) string {
	return JoinDecl(r.String(), name)
}

// JoinDecl joins a rendered C type and a name, e.g. "NSString *s" or "int i".
func JoinDecl(typ, name string) string {
	if strings.HasSuffix(typ, "*") {
		return typ + name
	}
	return typ + " " + name
}

// Key identifies the type inside a method signature.
func (r TypeRef) Key() string {
	if r.Object != nil {
		return r.Object.Name()
	}
	return r.String()
}

// ZeroValue is the literal returned by generated stubs.
func (r TypeRef) ZeroValue() string {
	switch {
	case r.Object != nil:
		return "nil"
	case r.Scalar == "BOOL":
		return "NO"
	case r.IsVoid():
		return ""
	}
	return "0"
}

// FormatSpecifier returns the NSString format directive for values of this type.
func (r TypeRef) FormatSpecifier() string {
	if r.Object != nil {
		return "%@"
	}
	switch r.Scalar {
	case "int", "BOOL", "short", "char":
		return "%d"
	case "long long":
		return "%lld"
	case "float", "double":
		return "%g"
	case "unichar":
		return "%C"
	}
	return "%@"
}

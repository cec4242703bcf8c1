package translate

import (
	"strings"
	"unicode"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/objc"
)

var primitiveTypes = map[string]objc.TypeRef{
	"void":    objc.Void,
	"int":     objc.Int,
	"short":   objc.Int,
	"byte":    objc.Int,
	"long":    objc.LongLong,
	"float":   objc.Float,
	"double":  objc.Double,
	"boolean": objc.Bool,
	"char":    objc.Unichar,
}

var wellKnownClasses = map[string]*objc.Type{
	"Object":        objc.NSObject,
	"String":        objc.NSString,
	"CharSequence":  objc.NSString,
	"StringBuilder": objc.NSMutableString,
	"StringBuffer":  objc.NSMutableString,

	"Integer":   objc.NSNumber,
	"Long":      objc.NSNumber,
	"Short":     objc.NSNumber,
	"Byte":      objc.NSNumber,
	"Float":     objc.NSNumber,
	"Double":    objc.NSNumber,
	"Boolean":   objc.NSNumber,
	"Character": objc.NSNumber,
	"Number":    objc.NSNumber,

	"List":       objc.NSMutableArray,
	"ArrayList":  objc.NSMutableArray,
	"LinkedList": objc.NSMutableArray,
	"Collection": objc.NSMutableArray,
	"Iterable":   objc.NSMutableArray,

	"Map":           objc.NSMutableDictionary,
	"HashMap":       objc.NSMutableDictionary,
	"TreeMap":       objc.NSMutableDictionary,
	"LinkedHashMap": objc.NSMutableDictionary,

	"Set":           objc.NSMutableSet,
	"HashSet":       objc.NSMutableSet,
	"TreeSet":       objc.NSMutableSet,
	"LinkedHashSet": objc.NSMutableSet,

	"Throwable":                      objc.NSException,
	"Exception":                      objc.NSException,
	"Error":                          objc.NSException,
	"RuntimeException":               objc.NSException,
	"IllegalArgumentException":       objc.NSException,
	"IllegalStateException":          objc.NSException,
	"NullPointerException":           objc.NSException,
	"UnsupportedOperationException":  objc.NSException,
	"IndexOutOfBoundsException":      objc.NSException,
	"ArrayIndexOutOfBoundsException": objc.NSException,
	"ArithmeticException":            objc.NSException,
	"ClassCastException":             objc.NSException,
	"NumberFormatException":          objc.NSException,
	"IOException":                    objc.NSException,
	"InterruptedException":           objc.NSException,

	"Cloneable":    objc.NSCopying,
	"Serializable": objc.NSCoding,
}

// scalarOverrides are Foundation typedefs that configuration may map to.
var scalarOverrides = map[string]bool{
	"NSInteger":  true,
	"NSUInteger": true,
	"CGFloat":    true,
}

// TypeMapper maps Java types to Objective-C types. Configured overrides take
// precedence over the built-in table.
type TypeMapper struct {
	registry  *Registry
	overrides map[string]string
}

func NewTypeMapper(reg *Registry, overrides map[string]string) *TypeMapper {
	if reg == nil {
		reg = NewRegistry()
	}
	m := &TypeMapper{registry: reg, overrides: make(map[string]string, len(overrides))}
	for from, target := range overrides {
		m.overrides[from] = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(target), "*"))
	}
	return m
}

func (m *TypeMapper) Registry() *Registry {
	return m.registry
}

// Map returns the Objective-C type of values of Java type t.
func (m *TypeMapper) Map(t java.Type) objc.TypeRef {
	if t.IsArray() {
		return objc.ObjectRef(objc.NSMutableArray)
	}
	if ref, ok := m.override(t); ok {
		return ref
	}
	if ref, ok := primitiveTypes[t.Name]; ok {
		return ref
	}
	return objc.ObjectRef(m.Class(t.Name))
}

// Class resolves a Java class or interface name to the Objective-C type that
// stands for it.
func (m *TypeMapper) Class(name string) *objc.Type {
	simple := simpleName(name)
	if ref, ok := m.override(java.Type{Name: name}); ok && ref.IsObject() {
		return ref.Object
	}
	if t, ok := wellKnownClasses[simple]; ok {
		return t
	}
	return m.registry.Resolve(simple)
}

// IsWellKnown reports whether name is a Java library type with a built-in
// Foundation mapping.
func (m *TypeMapper) IsWellKnown(name string) bool {
	_, ok := wellKnownClasses[simpleName(name)]
	return ok
}

func (m *TypeMapper) override(t java.Type) (objc.TypeRef, bool) {
	target, ok := m.overrides[t.Name]
	if !ok {
		target, ok = m.overrides[t.SimpleName()]
	}
	if !ok || target == "" {
		return objc.TypeRef{}, false
	}
	if first := []rune(target)[0]; scalarOverrides[target] || unicode.IsLower(first) {
		return objc.Scalar(target), true
	}
	if t, ok := m.registry.Lookup(target); ok {
		return objc.ObjectRef(t), true
	}
	return objc.ObjectRef(objc.NewSystemType(target, false)), true
}

func simpleName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func isBoxedType(name string) bool {
	switch simpleName(name) {
	case "Integer", "Long", "Short", "Byte", "Float", "Double", "Boolean", "Character", "Number":
		return true
	}
	return false
}

func isStringType(t java.Type) bool {
	if t.IsArray() {
		return false
	}
	switch simpleName(t.Name) {
	case "String", "CharSequence":
		return true
	}
	return false
}

// unboxSelector returns the NSNumber accessor reading a value of primitive
// type name, e.g. intValue.
func unboxSelector(name string) string {
	switch name {
	case "int", "short", "byte", "Integer", "Short", "Byte":
		return "intValue"
	case "long", "Long":
		return "longLongValue"
	case "float", "Float":
		return "floatValue"
	case "double", "Double", "Number":
		return "doubleValue"
	case "boolean", "Boolean":
		return "boolValue"
	case "char", "Character":
		return "unsignedShortValue"
	}
	return ""
}

// primitiveOf returns the primitive type a boxed class wraps.
func primitiveOf(boxed string) string {
	switch simpleName(boxed) {
	case "Integer":
		return "int"
	case "Long":
		return "long"
	case "Short":
		return "short"
	case "Byte":
		return "byte"
	case "Float":
		return "float"
	case "Double", "Number":
		return "double"
	case "Boolean":
		return "boolean"
	case "Character":
		return "char"
	}
	return ""
}

// collectionKind classifies a Java type by the Foundation collection it maps to.
func collectionKind(t java.Type) string {
	if t.IsArray() {
		return "array"
	}
	switch wellKnownClasses[simpleName(t.Name)] {
	case objc.NSMutableArray:
		return "list"
	case objc.NSMutableDictionary:
		return "map"
	case objc.NSMutableSet:
		return "set"
	case objc.NSMutableString:
		return "builder"
	}
	return ""
}

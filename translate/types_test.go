package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/objc"
)

func TestTypeMapperBuiltins(t *testing.T) {
	m := NewTypeMapper(nil, nil)
	tests := []struct {
		java java.Type
		want string
	}{
		{java.Type{Name: "int"}, "int"},
		{java.Type{Name: "long"}, "long long"},
		{java.Type{Name: "boolean"}, "BOOL"},
		{java.Type{Name: "char"}, "unichar"},
		{java.Type{Name: "void"}, "void"},
		{java.Type{Name: "String"}, "NSString *"},
		{java.Type{Name: "java.lang.String"}, "NSString *"},
		{java.Type{Name: "Integer"}, "NSNumber *"},
		{java.Type{Name: "StringBuilder"}, "NSMutableString *"},
		{java.Type{Name: "List", TypeArgs: []java.Type{{Name: "String"}}}, "NSMutableArray *"},
		{java.Type{Name: "HashMap"}, "NSMutableDictionary *"},
		{java.Type{Name: "Set"}, "NSMutableSet *"},
		{java.Type{Name: "RuntimeException"}, "NSException *"},
		{java.Type{Name: "int", ArrayDepth: 1}, "NSMutableArray *"},
		{java.Type{Name: "Widget"}, "Widget *"},
	}
	for _, tt := range tests {
		t.Run(tt.java.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.java).String())
		})
	}
}

func TestTypeMapperOverrides(t *testing.T) {
	m := NewTypeMapper(nil, map[string]string{
		"int":       "NSInteger",
		"Date":      "NSDate *",
		"Timestamp": "uint64_t",
	})

	assert.Equal(t, "NSInteger", m.Map(java.Type{Name: "int"}).String())
	assert.Equal(t, "uint64_t", m.Map(java.Type{Name: "Timestamp"}).String())

	date := m.Map(java.Type{Name: "java.util.Date"})
	require.True(t, date.IsObject())
	assert.Equal(t, "NSDate", date.Object.Name())
	assert.True(t, date.Object.IsSystem())
	assert.Equal(t, "NSDate *", date.String())
}

func TestTypeMapperResolvesDeclaredTypes(t *testing.T) {
	reg := NewRegistry()
	reg.Declare("Shape", true)
	m := NewTypeMapper(reg, nil)

	shape := m.Class("Shape")
	assert.True(t, shape.IsInterfaceLike())
	assert.Same(t, shape, m.Class("com.example.Shape"))
	assert.True(t, m.IsWellKnown("java.util.List"))
	assert.False(t, m.IsWellKnown("Shape"))
}

func TestCollectionKind(t *testing.T) {
	assert.Equal(t, "list", collectionKind(java.Type{Name: "ArrayList"}))
	assert.Equal(t, "map", collectionKind(java.Type{Name: "java.util.Map"}))
	assert.Equal(t, "set", collectionKind(java.Type{Name: "HashSet"}))
	assert.Equal(t, "builder", collectionKind(java.Type{Name: "StringBuilder"}))
	assert.Equal(t, "array", collectionKind(java.Type{Name: "String", ArrayDepth: 2}))
	assert.Empty(t, collectionKind(java.Type{Name: "Widget"}))
}

func TestRegistryDeclareAndDefine(t *testing.T) {
	reg := NewRegistry()
	declared := reg.Declare("Point", false)
	assert.True(t, declared.IsReference())
	assert.False(t, reg.IsDefined("Point"))
	assert.True(t, reg.IsDefined("NSString"))

	typ, err := objc.NewTypeBuilder("Point", nil).Build()
	require.NoError(t, err)
	assert.False(t, reg.Define(typ))
	assert.True(t, reg.IsDefined("Point"))
	assert.Same(t, typ, reg.Declare("Point", false), "declaring never replaces a definition")

	again, err := objc.NewTypeBuilder("Point", nil).Build()
	require.NoError(t, err)
	assert.True(t, reg.Define(again))

	found, ok := reg.Lookup("Point")
	require.True(t, ok)
	assert.Same(t, again, found)
	assert.Equal(t, []string{"Point"}, reg.Names())

	_, ok = reg.Lookup("Missing")
	assert.False(t, ok)
	assert.True(t, reg.Resolve("Missing").IsReference())
}

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/java"
)

func TestGeneratorContextBuildsOnce(t *testing.T) {
	ctx := NewGeneratorContext("Point.java", nil, nil)
	ctx.declareType(&memberTable{name: "Point"})

	first, err := ctx.CurrentType()
	require.NoError(t, err)
	second, err := ctx.CurrentType()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "Point", first.Name())
}

func TestGeneratorContextWithoutType(t *testing.T) {
	ctx := NewGeneratorContext("Empty.java", nil, nil)
	_, err := ctx.CurrentType()
	require.Error(t, err)
	assert.True(t, Is(err, ErrPrecondition))
	assert.Contains(t, err.Error(), "Empty.java")
}

func TestGeneratorContextImports(t *testing.T) {
	reg := NewRegistry()
	reg.Declare("Engine", false)
	ctx := NewGeneratorContext("Car.java", reg, nil)
	ctx.declareType(&memberTable{name: "Car", typeParams: map[string]bool{"T": true}})

	assert.Equal(t, "Engine *", ctx.mapType(java.Type{Name: "Engine"}).String())
	assert.Equal(t, "Wheel *", ctx.mapType(java.Type{Name: "Wheel"}).String())
	assert.Equal(t, "id", ctx.mapType(java.Type{Name: "T"}).String())
	ctx.mapType(java.Type{Name: "Car"})
	ctx.mapType(java.Type{Name: "String"})

	assert.True(t, ctx.Imports().Contains("Engine"))
	assert.True(t, ctx.Imports().Contains("Wheel"))
	assert.True(t, ctx.Imports().Contains("NSString"))
	assert.False(t, ctx.Imports().Contains("Car"))
	assert.Equal(t, []string{"Wheel"}, ctx.PendingReferences())
}

func TestGeneratorContextScopes(t *testing.T) {
	ctx := NewGeneratorContext("Scope.java", nil, nil)
	ctx.enterMethod(&methodState{static: true})
	ctx.declareLocal("a", typeInt)

	ctx.pushScope()
	ctx.declareLocal("b", typeString)
	got, ok := ctx.lookupLocal("a")
	require.True(t, ok)
	assert.Equal(t, "int", got.Name)
	ctx.popScope()

	_, ok = ctx.lookupLocal("b")
	assert.False(t, ok)
	assert.True(t, ctx.inStaticContext())
	assert.False(t, ctx.inConstructor())

	ctx.leaveMethod()
	_, ok = ctx.lookupLocal("a")
	assert.False(t, ok)
	assert.False(t, ctx.inStaticContext())
}

func TestGeneratorContextInheritedFields(t *testing.T) {
	reg := NewRegistry()
	reg.members["Base"] = &memberTable{
		name:   "Base",
		fields: map[string]fieldInfo{"limit": {typ: typeInt, static: true}},
	}
	reg.members["Named"] = &memberTable{
		name:          "Named",
		interfaceLike: true,
		fields:        map[string]fieldInfo{"LABEL": {typ: typeString, static: true}},
	}
	ctx := NewGeneratorContext("Derived.java", reg, nil)
	ctx.declareType(&memberTable{name: "Derived", super: "Base", interfaces: []string{"Named"}})

	f, owner, ok := ctx.lookupField("limit")
	require.True(t, ok)
	assert.True(t, f.static)
	assert.Equal(t, "Base", owner.name)

	_, owner, ok = ctx.lookupField("LABEL")
	require.True(t, ok)
	assert.Equal(t, "Named", owner.name)

	_, owner, ok = ctx.lookupField("missing")
	assert.False(t, ok)
	assert.Nil(t, owner)
}

func TestGeneratorContextClassNames(t *testing.T) {
	ctx := NewGeneratorContext("Names.java", nil, nil)
	ctx.declareType(&memberTable{name: "Names"})
	ctx.imported["Objects"] = "java.util.Objects"

	assert.True(t, ctx.isClassName("Objects"))
	assert.True(t, ctx.isClassName("Names"))
	assert.True(t, ctx.isClassName("Math"))
	assert.False(t, ctx.isClassName("count"))
	assert.False(t, ctx.isClassName(""))
}

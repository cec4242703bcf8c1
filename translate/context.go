package translate

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/objc"
)

// GeneratorContext carries the state of translating one compilation unit.
// A context is used for exactly one unit.
type GeneratorContext struct {
	file     string
	registry *Registry
	mapper   *TypeMapper
	imports  *objc.ImportSet
	builder  *objc.TypeBuilder
	unit     *memberTable
	pkg      string
	imported map[string]string
	pending  *orderedmap.OrderedMap[string, struct{}]

	scopes []map[string]java.Type
	method *methodState

	built    *objc.Type
	buildErr error
}

// methodState describes the member whose body is being translated.
type methodState struct {
	static      bool
	constructor bool
	result      java.Type
}

func NewGeneratorContext(file string, reg *Registry, mapper *TypeMapper) *GeneratorContext {
	if reg == nil {
		reg = NewRegistry()
	}
	if mapper == nil {
		mapper = NewTypeMapper(reg, nil)
	}
	return &GeneratorContext{
		file:     file,
		registry: reg,
		mapper:   mapper,
		imports:  objc.NewImportSet(),
		imported: make(map[string]string),
		pending:  orderedmap.New[string, struct{}](),
	}
}

func (c *GeneratorContext) File() string {
	return c.file
}

// Package is the declared Java package, empty for the default package.
func (c *GeneratorContext) Package() string {
	return c.pkg
}

func (c *GeneratorContext) Imports() *objc.ImportSet {
	return c.imports
}

// CurrentType builds the unit's primary type on first use and returns the
// same model afterwards.
func (c *GeneratorContext) CurrentType() (*objc.Type, error) {
	if c.built != nil || c.buildErr != nil {
		return c.built, c.buildErr
	}
	if c.builder == nil {
		c.buildErr = Wrapf(ErrPrecondition, "%s: no type declared", c.file)
		return nil, c.buildErr
	}
	c.built, c.buildErr = c.builder.Build()
	return c.built, c.buildErr
}

// PendingReferences lists the referenced type names the registry knows
// nothing about, in the order they were first seen.
func (c *GeneratorContext) PendingReferences() []string {
	var names []string
	for pair := c.pending.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := c.registry.Lookup(pair.Key); !ok {
			names = append(names, pair.Key)
		}
	}
	return names
}

func (c *GeneratorContext) declareType(table *memberTable) *objc.TypeBuilder {
	c.unit = table
	c.builder = objc.NewTypeBuilder(table.name, c.imports)
	return c.builder
}

func (c *GeneratorContext) typeName() string {
	if c.unit == nil {
		return ""
	}
	return c.unit.name
}

func (c *GeneratorContext) reference(name string) {
	if name == "" || name == c.typeName() {
		return
	}
	c.pending.Set(name, struct{}{})
}

func (c *GeneratorContext) addImport(t *objc.Type) {
	if t == nil || t == objc.ID || t.Name() == c.typeName() {
		return
	}
	c.imports.Add(t)
	if !t.IsSystem() {
		c.reference(t.Name())
	}
}

func (c *GeneratorContext) isTypeParam(name string) bool {
	return c.unit != nil && c.unit.typeParams[name]
}

// mapType maps t and imports the object type it names. Type parameters of
// the unit map to id.
func (c *GeneratorContext) mapType(t java.Type) objc.TypeRef {
	if c.isTypeParam(t.Name) && !t.IsArray() {
		return objc.ObjectRef(objc.ID)
	}
	ref := c.mapper.Map(t)
	if ref.IsObject() {
		c.addImport(ref.Object)
	}
	return ref
}

// classType resolves a class name used as a receiver, base or protocol.
func (c *GeneratorContext) classType(name string) *objc.Type {
	if c.isTypeParam(name) {
		return objc.ID
	}
	t := c.mapper.Class(name)
	c.addImport(t)
	return t
}

// members returns the member table of the named type, the unit's own
// for its name.
func (c *GeneratorContext) members(name string) *memberTable {
	name = simpleName(name)
	if c.unit != nil && name == c.unit.name {
		return c.unit
	}
	return c.registry.memberTable(name)
}

// isClassName reports whether an unresolved simple name denotes a class.
func (c *GeneratorContext) isClassName(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := c.imported[name]; ok {
		return true
	}
	if name == c.typeName() || c.isTypeParam(name) || c.mapper.IsWellKnown(name) {
		return true
	}
	if _, ok := c.registry.Lookup(name); ok {
		return true
	}
	first := name[0]
	return first >= 'A' && first <= 'Z'
}

func (c *GeneratorContext) enterMethod(state *methodState) {
	c.method = state
	c.scopes = []map[string]java.Type{{}}
}

func (c *GeneratorContext) leaveMethod() {
	c.method = nil
	c.scopes = nil
}

func (c *GeneratorContext) inStaticContext() bool {
	return c.method != nil && c.method.static
}

func (c *GeneratorContext) inConstructor() bool {
	return c.method != nil && c.method.constructor
}

func (c *GeneratorContext) pushScope() {
	c.scopes = append(c.scopes, map[string]java.Type{})
}

func (c *GeneratorContext) popScope() {
	if len(c.scopes) > 0 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

func (c *GeneratorContext) declareLocal(name string, t java.Type) {
	if len(c.scopes) == 0 {
		c.pushScope()
	}
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *GeneratorContext) lookupLocal(name string) (java.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return java.Type{}, false
}

// hierarchy visits the member table of typeName and then those of its
// supertypes, breadth first, until visit returns true.
func (c *GeneratorContext) hierarchy(typeName string, visit func(*memberTable) bool) {
	seen := map[string]bool{}
	queue := []string{typeName}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		table := c.members(name)
		if table == nil {
			continue
		}
		if visit(table) {
			return
		}
		queue = append(queue, table.supertypes()...)
	}
}

// lookupField finds a field of the unit or one of its supertypes.
func (c *GeneratorContext) lookupField(name string) (f fieldInfo, owner *memberTable, ok bool) {
	c.hierarchy(c.typeName(), func(table *memberTable) bool {
		f, ok = table.fields[name]
		owner = table
		return ok
	})
	if !ok {
		owner = nil
	}
	return f, owner, ok
}

// lookupMethod finds a method of the named type or its supertypes.
func (c *GeneratorContext) lookupMethod(typeName, name string, arity int) (m methodInfo, ok bool) {
	c.hierarchy(typeName, func(table *memberTable) bool {
		m, ok = table.method(name, arity)
		return ok
	})
	return m, ok
}

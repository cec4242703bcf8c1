package objc

import (
	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TypeBuilder accumulates the parts of one Type while a compilation unit is
// walked. It builds exactly once.
type TypeBuilder struct {
	name         string
	imports      *ImportSet
	bases        []*Type
	protocols    *orderedmap.OrderedMap[string, *Type]
	fields       *orderedmap.OrderedMap[string, Field]
	methods      *orderedmap.OrderedMap[string, Method]
	staticInit   []*Block
	instanceInit []*Block
	isInterface  bool
	built        bool
}

// NewTypeBuilder starts a type named name. imports may be shared with other
// builders; a nil set gets a private one.
func NewTypeBuilder(name string, imports *ImportSet) *TypeBuilder {
	if imports == nil {
		imports = NewImportSet()
	}
	return &TypeBuilder{
		name:      name,
		imports:   imports,
		protocols: orderedmap.New[string, *Type](),
		fields:    orderedmap.New[string, Field](),
		methods:   orderedmap.New[string, Method](),
	}
}

func (b *TypeBuilder) Name() string {
	return b.name
}

func (b *TypeBuilder) Imports() *ImportSet {
	return b.imports
}

func (b *TypeBuilder) sealed(op string) bool {
	if b.built {
		log.Warningf("%s: %s after Build ignored", b.name, op)
	}
	return b.built
}

// AddBaseClass records a superclass candidate. The first one added wins.
func (b *TypeBuilder) AddBaseClass(t *Type) {
	if t == nil || b.sealed("AddBaseClass") {
		return
	}
	b.bases = append(b.bases, t)
}

func (b *TypeBuilder) AddProtocol(t *Type) {
	if t == nil || b.sealed("AddProtocol") {
		return
	}
	if _, ok := b.protocols.Get(t.Name()); !ok {
		b.protocols.Set(t.Name(), t)
	}
}

// AddField records f. Adding a field with the same name again keeps the first.
func (b *TypeBuilder) AddField(f Field) {
	if b.sealed("AddField") {
		return
	}
	if _, ok := b.fields.Get(f.Name); !ok {
		b.fields.Set(f.Name, f)
	}
}

// AddMethod records m keyed by its signature. Adding the same signature
// again keeps the first.
func (b *TypeBuilder) AddMethod(m Method) {
	if b.sealed("AddMethod") {
		return
	}
	if _, ok := b.methods.Get(m.Signature()); !ok {
		m.Params = append([]Param(nil), m.Params...)
		b.methods.Set(m.Signature(), m)
	}
}

// AddInitializer records a Java initializer block.
func (b *TypeBuilder) AddInitializer(block *Block, static bool) {
	if block == nil || b.sealed("AddInitializer") {
		return
	}
	if static {
		b.staticInit = append(b.staticInit, block)
	} else {
		b.instanceInit = append(b.instanceInit, block)
	}
}

func (b *TypeBuilder) SetIsInterface(flag bool) {
	if b.sealed("SetIsInterface") {
		return
	}
	b.isInterface = flag
}

// HasMethod reports whether a method with the given signature was added.
func (b *TypeBuilder) HasMethod(signature string) bool {
	_, ok := b.methods.Get(signature)
	return ok
}

// Build returns the finished Type. The result shares no storage with the builder.
func (b *TypeBuilder) Build() (*Type, error) {
	if b.built {
		return nil, errors.Wrapf(ErrBuilderUsed, "build %s", b.name)
	}
	b.built = true

	t := &Type{
		name:          b.name,
		interfaceLike: b.isInterface,
		base:          NSObject,
	}

	if len(b.bases) > 0 {
		t.base = b.bases[0]
		if len(b.bases) > 1 {
			for _, dropped := range b.bases[1:] {
				log.Warningf("%s: base class %s ignored, keeping %s", b.name, dropped.Name(), t.base.Name())
			}
		}
	}
	if t.interfaceLike {
		t.base = NSObject
	}

	for pair := b.protocols.Oldest(); pair != nil; pair = pair.Next() {
		t.protocols = append(t.protocols, pair.Value)
	}
	for _, imp := range b.imports.Types() {
		if imp.Name() != b.name {
			t.imports = append(t.imports, imp)
		}
	}
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		t.fields = append(t.fields, pair.Value)
	}
	t.methods = uniqueSelectors(b.name, b.methods)

	t.staticInit = append([]*Block(nil), b.staticInit...)
	t.instanceInit = append([]*Block(nil), b.instanceInit...)

	return t, nil
}

// uniqueSelectors returns the methods in insertion order, keeping only the
// first of several overloads that render to the same selector.
func uniqueSelectors(owner string, methods *orderedmap.OrderedMap[string, Method]) []Method {
	var kept []Method
	seen := map[string]string{}
	for pair := methods.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		key := m.Selector()
		if m.Static {
			key = "+" + key
		}
		if prev, ok := seen[key]; ok {
			log.Warningf("%s: %s dropped, %s already uses selector %s", owner, m.Signature(), prev, m.Selector())
			continue
		}
		seen[key] = m.Signature()
		kept = append(kept, m)
	}
	return kept
}

package translate

import (
	"sort"
	"sync"

	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

// Registry holds every type known to one invocation, keyed by name.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]*objc.Type
	defined map[string]bool
	members map[string]*memberTable
}

func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]*objc.Type),
		defined: make(map[string]bool),
		members: make(map[string]*memberTable),
	}
}

// Declare records a placeholder for a type that a unit of the batch will
// define. A declaration never replaces a defined type.
func (r *Registry) Declare(name string, interfaceLike bool) *objc.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.types[name]; ok {
		if r.defined[name] || t.IsInterfaceLike() == interfaceLike {
			return t
		}
	}
	var t *objc.Type
	if interfaceLike {
		t = objc.NewProtocolReference(name)
	} else {
		t = objc.NewReference(name)
	}
	r.types[name] = t
	return t
}

// declareUnit registers the primary type of a parsed unit together with its
// member signatures. Units without a class or interface are skipped.
func (r *Registry) declareUnit(cu *parser.Node) {
	decl := primaryType(cu)
	if decl == nil || (decl.Kind != parser.KindClassDecl && decl.Kind != parser.KindInterfaceDecl) {
		return
	}
	table := scanMembers(decl)
	if table.name == "" {
		return
	}
	r.Declare(table.name, table.interfaceLike)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[table.name] = table
}

func (r *Registry) memberTable(name string) *memberTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members[name]
}

// IsDefined reports whether a built model is recorded for name.
func (r *Registry) IsDefined(name string) bool {
	if _, ok := objc.SystemType(name); ok {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defined[name]
}

// Define records a built type, replacing any declaration.
// It reports whether an earlier definition was replaced.
func (r *Registry) Define(t *objc.Type) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced = r.defined[t.Name()]
	r.types[t.Name()] = t
	r.defined[t.Name()] = true
	return replaced
}

// Lookup returns the fullest known model for name: a system type, a
// defined type, or a declaration.
func (r *Registry) Lookup(name string) (*objc.Type, bool) {
	if t, ok := objc.SystemType(name); ok {
		return t, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Resolve is Lookup that falls back to a fresh class reference.
func (r *Registry) Resolve(name string) *objc.Type {
	if t, ok := r.Lookup(name); ok {
		return t
	}
	return objc.NewReference(name)
}

// Names lists the known user types in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

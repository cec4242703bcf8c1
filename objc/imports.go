package objc

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ImportSet is an insertion-ordered set of types keyed by name.
// A later Add for a name already present replaces a placeholder with the
// fuller model but keeps the original position.
type ImportSet struct {
	types *orderedmap.OrderedMap[string, *Type]
}

func NewImportSet() *ImportSet {
	return &ImportSet{types: orderedmap.New[string, *Type]()}
}

func (s *ImportSet) Add(t *Type) {
	if t == nil || t == ID {
		return
	}
	if old, ok := s.types.Get(t.Name()); ok && !old.IsReference() {
		return
	}
	s.types.Set(t.Name(), t)
}

func (s *ImportSet) Contains(name string) bool {
	_, ok := s.types.Get(name)
	return ok
}

func (s *ImportSet) Len() int {
	return s.types.Len()
}

// Types returns the members in insertion order.
func (s *ImportSet) Types() []*Type {
	result := make([]*Type, 0, s.types.Len())
	for pair := s.types.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// sortedImports orders types for rendering: system types first, then user
// types by name, each name once.
func sortedImports(types []*Type) []*Type {
	seen := map[string]bool{}
	var result []*Type
	for _, t := range types {
		if t == nil || t == ID || seen[t.Name()] {
			continue
		}
		seen[t.Name()] = true
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsSystem() != result[j].IsSystem() {
			return result[i].IsSystem()
		}
		return result[i].Name() < result[j].Name()
	})
	return result
}

package lsp

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dhamidi/java2objc/translate"
)

// Workspace holds the open documents of one editor session. Every document
// is declared to the translator, so a unit resolves the members of its
// open siblings.
type Workspace struct {
	mu      sync.Mutex
	docs    *orderedmap.OrderedMap[string, []byte]
	typeMap map[string]string
}

type document struct {
	path string
	src  []byte
}

func NewWorkspace(typeMap map[string]string) *Workspace {
	return &Workspace{
		docs:    orderedmap.New[string, []byte](),
		typeMap: typeMap,
	}
}

func (w *Workspace) Update(path string, src []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs.Set(path, src)
}

func (w *Workspace) Close(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs.Delete(path)
}

func (w *Workspace) Source(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs.Get(path)
}

// Analyze translates the document at path against the rest of the
// workspace.
func (w *Workspace) Analyze(path string) (*translate.Result, error) {
	w.mu.Lock()
	src, ok := w.docs.Get(path)
	var others []document
	for pair := w.docs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != path {
			others = append(others, document{pair.Key, pair.Value})
		}
	}
	w.mu.Unlock()

	if !ok {
		return nil, translate.Wrapf(translate.ErrPrecondition, "%s: document is not open", path)
	}
	tr := translate.NewTranslator(translate.Options{TypeMap: w.typeMap})
	for _, other := range others {
		if err := tr.DeclareSource(other.path, other.src); err != nil {
			log.Debugf("%s: skipped while declaring: %s", other.path, err)
		}
	}
	return tr.TranslateSource(path, src)
}

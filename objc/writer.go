package objc

import (
	"io"

	"github.com/cockroachdb/errors"
)

type Mode int

const (
	// DeclarationMode renders the .h file.
	DeclarationMode Mode = iota
	// DefinitionMode renders the .m file.
	DefinitionMode
)

func (m Mode) String() string {
	if m == DefinitionMode {
		return "definition"
	}
	return "declaration"
}

// FileName returns the output file for t in this mode.
func (m Mode) FileName(t *Type) string {
	if m == DefinitionMode {
		return t.ImplFileName()
	}
	return t.HeaderFileName()
}

// Render returns the text for t in this mode.
func (m Mode) Render(t *Type) string {
	if m == DefinitionMode {
		return RenderDefinition(t)
	}
	return RenderDeclaration(t)
}

type flusher interface {
	Flush() error
}

// SourceCodeWriter renders types into one output sink. It is open until
// Close; Close may be called any number of times, on a nil writer too.
type SourceCodeWriter struct {
	w      io.Writer
	mode   Mode
	closed bool
}

func NewSourceCodeWriter(w io.Writer, mode Mode) *SourceCodeWriter {
	return &SourceCodeWriter{w: w, mode: mode}
}

func (w *SourceCodeWriter) Mode() Mode {
	return w.mode
}

func (w *SourceCodeWriter) Append(t *Type) error {
	if w == nil || w.closed {
		return ErrWriterClosed
	}
	if w.w == nil {
		return errors.New("source code writer has no output")
	}
	if t == nil {
		return errors.New("append: nil type")
	}
	if _, err := io.WriteString(w.w, w.mode.Render(t)); err != nil {
		return errors.Wrapf(err, "write %s", w.mode.FileName(t))
	}
	return nil
}

// MarshalText renders t without writing it.
func (w *SourceCodeWriter) MarshalText(t *Type) ([]byte, error) {
	if t == nil {
		return nil, errors.New("marshal: nil type")
	}
	return []byte(w.mode.Render(t)), nil
}

// Close flushes and closes the sink when it supports it. Only the first
// call does any work.
func (w *SourceCodeWriter) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	if w.w == nil {
		return nil
	}

	var err error
	if f, ok := w.w.(flusher); ok {
		err = f.Flush()
	}
	if c, ok := w.w.(io.Closer); ok {
		err = errors.CombineErrors(err, c.Close())
	}
	return err
}

package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/java2objc/objc"
)

// TextEncoder prints a type model as an indented outline.
type TextEncoder struct {
	w   io.Writer
	typ *objc.Type
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(t *objc.Type) error {
	e.typ = t
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	m := buildModel(e.typ)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s %s", m.Kind, m.Name)
	if m.Base != "" {
		fmt.Fprintf(&buf, " : %s", m.Base)
	}
	if len(m.Protocols) > 0 {
		fmt.Fprintf(&buf, " <%s>", strings.Join(m.Protocols, ", "))
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  files: %s %s\n", m.Header, m.Impl)
	if len(m.Imports) > 0 {
		fmt.Fprintf(&buf, "  imports: %s\n", strings.Join(m.Imports, ", "))
	}

	for _, f := range m.Fields {
		fmt.Fprintf(&buf, "  field %s %s", f.Visibility, objc.JoinDecl(f.Type, f.Name))
		writeModifiers(&buf, f.Modifiers)
		if f.Init != "" {
			fmt.Fprintf(&buf, " = %s", f.Init)
		}
		buf.WriteString("\n")
	}
	for _, method := range m.Methods {
		fmt.Fprintf(&buf, "  method %s (%s)%s", method.Visibility, method.Returns, method.Selector)
		writeModifiers(&buf, method.Modifiers)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func writeModifiers(buf *bytes.Buffer, mods []string) {
	if len(mods) > 0 {
		fmt.Fprintf(buf, " [%s]", strings.Join(mods, " "))
	}
}

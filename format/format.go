// Package format encodes translated type models and parse trees for
// inspection.
package format

import (
	"encoding"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/java2objc/objc"
)

// Encoder writes one type model.
type Encoder interface {
	encoding.TextMarshaler
	Encode(t *objc.Type) error
}

// Names lists the formats New accepts.
var Names = []string{"text", "json", "yaml"}

// New returns the encoder for the named format.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	}
	return nil, errors.Newf("unknown format %q", name)
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

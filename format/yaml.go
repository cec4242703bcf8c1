package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/java2objc/objc"
)

type YAMLEncoder struct {
	w   io.Writer
	typ *objc.Type
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(t *objc.Type) error {
	e.typ = t
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(buildModel(e.typ))
}

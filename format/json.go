package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/java2objc/objc"
)

type JSONEncoder struct {
	w   io.Writer
	typ *objc.Type
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(t *objc.Type) error {
	e.typ = t
	text, err := e.MarshalText()
	return write(e.w, append(text, '\n'), err)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildModel(e.typ), "", "  ")
}

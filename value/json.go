package value

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// DecodeJSON decodes a JSON document into a Value. Numbers are preserved as
// json.Number so integer precision survives the round trip.
func DecodeJSON(data []byte) (Value, error) {
	return DecodeJSONReader(bytes.NewReader(data))
}

// DecodeJSONReader decodes a single JSON document from r. Trailing content
// after the document is an error.
func DecodeJSONReader(r io.Reader) (Value, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("value: decode json: %w", err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		return Value{}, fmt.Errorf("value: trailing content after json document")
	}
	return FromGo(raw)
}

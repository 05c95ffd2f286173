package bitbucket

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"unicode"
)

// Codec encodes request bodies and decodes response bodies.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec. Property names are camel-cased and null
// members are dropped when encoding. Decoding matches field names case
// insensitively, so camel-cased wire names land on exported Go fields.
//
// A JSONCodec must not be modified once it is handed to a Client.
type JSONCodec struct {
	CamelCase bool
	OmitNull  bool
}

// NewJSONCodec returns the codec used by Bitbucket: camelCase names, nulls omitted
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{CamelCase: true, OmitNull: true}
}

// Marshal encodes v as JSON applying the naming and null policy
func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !c.CamelCase && !c.OmitNull {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return json.Marshal(c.normalize(tree))
}

// Unmarshal decodes data into v. Numbers decoded into interface values keep
// their textual form as json.Number. Anything but whitespace after the first
// JSON value is an error.
func (c *JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("invalid character after top-level JSON value")

func (c *JSONCodec) normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val == nil && c.OmitNull {
				continue
			}
			if c.CamelCase {
				k = camelCase(k)
			}
			out[k] = c.normalize(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = c.normalize(t[i])
		}
		return t
	default:
		return v
	}
}

// camelCase lowercases the leading run of upper case letters, leaving the
// last one of the run alone when it starts the next word:
// "DisplayId" -> "displayId", "ID" -> "id", "URLPath" -> "urlPath".
func camelCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}

	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && !unicode.IsUpper(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Marshal encodes v as compact JSON. Object key order is preserved and HTML
// characters are not escaped, so "&&" in a script stays readable.
func Marshal(v any) ([]byte, error) {
	e := &encoder{}
	if err := e.encode(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// MarshalIndent encodes v with one indent per nesting level and a trailing
// newline.
func MarshalIndent(v any, indent string) ([]byte, error) {
	e := &encoder{indent: indent}
	if err := e.encode(v, 0); err != nil {
		return nil, err
	}
	e.buf.WriteByte('\n')
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(e.indent, depth))
}

func (e *encoder) separator() {
	e.buf.WriteByte(':')
	if e.indent != "" {
		e.buf.WriteByte(' ')
	}
}

func (e *encoder) encode(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case *Object:
		if x == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.encodeObject(x, depth)
	case map[string]any:
		return e.encodeObject(FromMap(x), depth)
	case []any:
		return e.encodeArray(x, depth)
	case []string:
		arr, _ := AsArray(x)
		return e.encodeArray(arr, depth)
	case json.Number:
		if x == "" {
			e.buf.WriteByte('0')
			return nil
		}
		if !json.Valid([]byte(x)) {
			return fmt.Errorf("invalid number literal %q", string(x))
		}
		e.buf.WriteString(string(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("unsupported value: %v", x)
		}
		return e.scalar(x)
	default:
		return e.scalar(x)
	}
	return nil
}

func (e *encoder) encodeObject(obj *Object, depth int) error {
	if obj.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}

	e.buf.WriteByte('{')
	first := true
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			e.buf.WriteByte(',')
		}
		first = false
		e.newline(depth + 1)
		if err := e.scalar(pair.Key); err != nil {
			return err
		}
		e.separator()
		if err := e.encode(pair.Value, depth+1); err != nil {
			return fmt.Errorf("key %q: %w", pair.Key, err)
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeArray(arr []any, depth int) error {
	if len(arr) == 0 {
		e.buf.WriteString("[]")
		return nil
	}

	e.buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.encode(item, depth+1); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

// scalar delegates leaf values to encoding/json.
func (e *encoder) scalar(v any) error {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimRight(b.Bytes(), "\n"))
	return nil
}

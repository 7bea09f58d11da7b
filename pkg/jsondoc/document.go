// Package jsondoc models untyped JSON documents whose object keys keep the
// order they were read in, and provides the deep-merge used by every recipe.
//
// Objects are *Object (an ordered map), arrays are []any, numbers are
// json.Number so that a document round-trips without reformatting its
// numbers, and strings, booleans and nil map to their Go counterparts.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that preserves key order.
type Object = orderedmap.OrderedMap[string, any]

// ErrNotObject is returned by Parse when the top-level value is not an object.
var ErrNotObject = errors.New("top-level JSON value is not an object")

// NewObject returns an empty object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Parse decodes data into an object.
func Parse(data []byte) (*Object, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// ParseValue decodes any JSON value.
func ParseValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid character after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// AsObject returns v as an object. Plain map[string]any values are converted
// recursively with their keys sorted.
func AsObject(v any) (*Object, bool) {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil, false
		}
		return x, true
	case map[string]any:
		return FromMap(x), true
	}
	return nil, false
}

// AsArray returns v as a JSON array.
func AsArray(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		arr := make([]any, len(x))
		for i, s := range x {
			arr[i] = s
		}
		return arr, true
	}
	return nil, false
}

// FromMap converts a plain map into an object with sorted keys.
func FromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := NewObject()
	for _, k := range keys {
		obj.Set(k, Clone(m[k]))
	}
	return obj
}

// Clone deep-copies a JSON value. Plain maps become objects and string slices
// become []any so that the copy only holds document types.
func Clone(v any) any {
	if obj, ok := v.(*Object); ok {
		if obj == nil {
			return nil
		}
		out := NewObject()
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Clone(pair.Value))
		}
		return out
	}
	if m, ok := v.(map[string]any); ok {
		return FromMap(m)
	}
	if arr, ok := AsArray(v); ok {
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = Clone(e)
		}
		return out
	}
	return v
}

// Keys returns the object keys in order.
func Keys(obj *Object) []string {
	if obj == nil {
		return nil
	}
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Equal reports whether a and b encode to the same JSON.
func Equal(a, b any) bool {
	ea, errA := Marshal(a)
	eb, errB := Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ea, eb)
}

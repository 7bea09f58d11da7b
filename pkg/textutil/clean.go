// Package textutil holds the small string and slice primitives the recipes
// use to stay idempotent: slice cleaning and whole-token containment.
package textutil

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// CleanArray returns a new slice where string values are trimmed, nil and
// empty-string values are dropped and duplicates are removed, keeping the
// first occurrence.
//
// Non-string values pass through unmodified. Scalars are compared by value and
// composite values (maps, slices, ordered objects) by their JSON encoding.
//
// Example:
//
//	textutil.CleanArray([]any{" a", "b", "a ", nil, ""}) // [a b]
func CleanArray[T any](values []T) []T {
	return CleanArrayFunc(values, DefaultKey[T])
}

// CleanArrayFunc is CleanArray with a caller-supplied identity function.
// Values for which key returns the same string are considered duplicates.
func CleanArrayFunc[T any](values []T, key func(T) string) []T {
	result := make([]T, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, v := range values {
		v, ok := cleanValue(v)
		if !ok {
			continue
		}

		k := key(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}

	return result
}

// CleanStringArray is the string specialisation of CleanArray.
func CleanStringArray(values []string) []string {
	return CleanArray(values)
}

// DefaultKey is the identity used by CleanArray.
func DefaultKey[T any](v T) string {
	switch x := any(v).(type) {
	case string:
		return "s:" + x
	case *string:
		return "s:" + *x
	case json.Number:
		return "n:" + x.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("n:%v", x)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return "j:" + string(data)
}

// cleanValue trims strings and reports whether v survives cleaning.
func cleanValue[T any](v T) (T, bool) {
	switch x := any(v).(type) {
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return v, false
		}
		if t, ok := any(trimmed).(T); ok {
			return t, true
		}
		return v, true
	case *string:
		if x == nil {
			return v, false
		}
		trimmed := strings.TrimSpace(*x)
		if trimmed == "" {
			return v, false
		}
		if t, ok := any(&trimmed).(T); ok {
			return t, true
		}
		return v, true
	}

	if isNil(v) {
		return v, false
	}
	return v, true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

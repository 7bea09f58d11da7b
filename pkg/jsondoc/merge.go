package jsondoc

import "github.com/RicardoJBarrios/kuocli/pkg/textutil"

// Customizer decides the merged value for key. dst is nil when the key is
// absent from the destination. Returning false falls back to the default rule.
type Customizer func(dst, src any, key string) (any, bool)

// MergeWith deep-merges sources into obj from left to right and returns obj.
// Objects present on both sides are merged recursively; any other patch value
// replaces the destination with a copy of itself. Sources that are not objects
// are ignored. A nil obj starts as an empty object.
func MergeWith(obj *Object, customizer Customizer, sources ...any) *Object {
	if obj == nil {
		obj = NewObject()
	}
	for _, s := range sources {
		src, ok := AsObject(s)
		if !ok {
			continue
		}
		mergeObject(obj, src, customizer)
	}
	return obj
}

// MergeWithArray is MergeWith where arrays found on both sides are
// concatenated and cleaned instead of replaced. Cleaning dedupes object and
// array elements by their canonical JSON, so structurally equal entries
// collapse into one.
func MergeWithArray(obj *Object, sources ...any) *Object {
	return MergeWith(obj, ConcatArrays, sources...)
}

// ConcatArrays is the array rule of MergeWithArray.
func ConcatArrays(dst, src any, _ string) (any, bool) {
	d, ok := AsArray(dst)
	if !ok {
		return nil, false
	}
	s, ok := AsArray(src)
	if !ok {
		return nil, false
	}

	combined := make([]any, 0, len(d)+len(s))
	combined = append(combined, d...)
	for _, v := range s {
		combined = append(combined, Clone(v))
	}
	return textutil.CleanArrayFunc(combined, valueKey), true
}

func valueKey(v any) string {
	switch v.(type) {
	case *Object, map[string]any, []any:
		if b, err := Marshal(v); err == nil {
			return "j:" + string(b)
		}
	}
	return textutil.DefaultKey(v)
}

func mergeObject(dst, src *Object, customizer Customizer) {
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		cur, exists := dst.Get(pair.Key)

		if customizer != nil {
			if v, ok := customizer(cur, pair.Value, pair.Key); ok {
				dst.Set(pair.Key, v)
				continue
			}
		}

		if exists {
			srcObj, srcIsObj := AsObject(pair.Value)
			dstObj, dstIsObj := AsObject(cur)
			if srcIsObj && dstIsObj {
				if _, plain := cur.(map[string]any); plain {
					dst.Set(pair.Key, dstObj)
				}
				mergeObject(dstObj, srcObj, customizer)
				continue
			}
		}

		dst.Set(pair.Key, Clone(pair.Value))
	}
}

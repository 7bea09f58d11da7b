package jsondoc

import "strings"

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the value at a dotted path such as "scripts.prepare".
func Get(obj *Object, path string) (any, bool) {
	parts := splitPath(path)
	if obj == nil || len(parts) == 0 {
		return nil, false
	}

	cur := obj
	for i, key := range parts {
		v, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Object)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Set stores v at a dotted path, creating intermediate objects. A non-object
// value in the way is replaced.
func Set(obj *Object, path string, v any) {
	parts := splitPath(path)
	if obj == nil || len(parts) == 0 {
		return
	}

	cur := obj
	for _, key := range parts[:len(parts)-1] {
		next, ok := cur.Get(key)
		child, isObj := next.(*Object)
		if !ok || !isObj {
			child = NewObject()
			cur.Set(key, child)
		}
		cur = child
	}
	cur.Set(parts[len(parts)-1], v)
}

// Delete removes the value at a dotted path and returns it.
func Delete(obj *Object, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	parent := obj
	if len(parts) > 1 {
		v, ok := Get(obj, strings.Join(parts[:len(parts)-1], "."))
		if !ok {
			return nil, false
		}
		if parent, ok = v.(*Object); !ok {
			return nil, false
		}
	}
	if parent == nil {
		return nil, false
	}
	return parent.Delete(parts[len(parts)-1])
}

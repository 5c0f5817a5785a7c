package engine

import "strings"

// flattenValue merges nested objects into a single level, joining key paths
// with the configured delimiter. Arrays are never recursed into: an array of
// objects stays verbatim under its combined key. Non-object inputs, including
// top-level arrays, are returned unchanged.
//
// Reserved keys are copied under their own names without a prefix and without
// recursion into their values.
func flattenValue(v any, cfg *FlattenConfig) any {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	out := NewObject()
	flattenInto(out, obj, "", 0, cfg)

	return out
}

func flattenInto(dst *Object, src *Object, prefix string, depth int, cfg *FlattenConfig) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if IsReservedKey(k) {
			dst.Set(k, v)
			continue
		}
		key := k
		if prefix != "" {
			key = prefix + cfg.delimiter() + k
		}
		if child, ok := v.(*Object); ok && withinDepth(cfg, depth) {
			flattenInto(dst, child, key, depth+1, cfg)
			continue
		}
		dst.Set(key, v)
	}
}

func withinDepth(cfg *FlattenConfig, depth int) bool {
	return cfg.MaxDepth == nil || depth < *cfg.MaxDepth
}

// unflattenValue rebuilds nesting from delimiter-joined keys. Intermediate
// path segments become nested objects created on demand; the final segment
// holds the value. Keys without the delimiter, and reserved keys, pass
// through unchanged.
//
// The inverse is exact only when original key names never contain the
// delimiter; that assumption is the caller's to uphold.
func unflattenValue(v any, cfg *FlattenConfig) any {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	delim := cfg.delimiter()
	out := NewObject()
	for _, k := range obj.Keys() {
		val, _ := obj.Get(k)
		if IsReservedKey(k) || !strings.Contains(k, delim) {
			out.Set(k, val)
			continue
		}
		segments := strings.Split(k, delim)
		cur := out
		for _, seg := range segments[:len(segments)-1] {
			next, ok := cur.Get(seg)
			child, isObj := next.(*Object)
			if !ok || !isObj {
				// Last writer wins when a segment collides with a scalar.
				child = NewObject()
				cur.Set(seg, child)
			}
			cur = child
		}
		cur.Set(segments[len(segments)-1], val)
	}

	return out
}

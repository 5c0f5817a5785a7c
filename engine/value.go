package engine

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Reserved keys owned by the engine. They are emitted as sidecar metadata
// during compression and must never appear in ordinary payload data.
const (
	// KeyFieldCodes holds the field-code table emitted by the key-mapping stage.
	KeyFieldCodes = "_field_codes"
	// KeyTabularArrays holds the column sets emitted by the tabular stage.
	KeyTabularArrays = "_tabular_arrays"
	// KeyCompressionMetadata holds strategy/preserve_types/compression_level.
	KeyCompressionMetadata = "_compression_metadata"
)

// IsReservedKey reports whether key carries sidecar metadata rather than
// payload data. Reserved keys pass through every stage untouched: never
// filtered, never flattened, never key-mapped, never tabular-encoded.
func IsReservedKey(key string) bool {
	return strings.HasPrefix(key, "_")
}

// Object is an insertion-ordered string-keyed JSON object.
//
// Go's built-in map iterates in random order, which would make field-code
// assignment and unique-value collection non-deterministic. Object keeps the
// key order alongside the values so that identical (data, config) inputs
// always compress to byte-identical output.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
// The returned slice is owned by the object; callers must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value bound to key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set binds key to value, appending the key if it is new and keeping its
// original position if it already exists.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}

	return true
}

// MarshalJSON writes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := gojson.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving its key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '{' {
		return fmt.Errorf("jsonpack: expected JSON object, got %v", tok)
	}
	obj, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*o = *obj

	return nil
}

// EncodeValue serializes any JSON value; Object values keep insertion order.
func EncodeValue(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

// DecodeValue parses JSON bytes into the engine's value model: objects become
// *Object with source key order, arrays []any, numbers float64.
func DecodeValue(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func decodeValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(gojson.Delim)
	if !ok {
		// string, float64, bool or nil
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, item)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}

		return arr, nil
	default:
		return nil, fmt.Errorf("jsonpack: unexpected delimiter %v", d)
	}
}

func decodeObject(dec *gojson.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonpack: expected object key, got %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}

	return obj, nil
}

// Normalize converts a JSON value into the engine's internal form, deep
// copying every container. map[string]any objects become ordered Objects
// with sorted key order so that plain unmarshal output stays deterministic;
// existing Objects keep their insertion order.
func Normalize(v any) any {
	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			out.Set(k, Normalize(child))
		}

		return out
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewObject()
		for _, k := range keys {
			out.Set(k, Normalize(val[k]))
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}

		return out
	default:
		return val
	}
}

// Clone deep-copies a normalized JSON value.
func Clone(v any) any {
	return Normalize(v)
}

// Equal reports deep equality of two JSON values. Object key order is not
// significant and numeric values compare across int/float representations.
func Equal(a, b any) bool {
	return equalValue(Normalize(a), Normalize(b))
}

func equalValue(a, b any) bool {
	if an, ok := toFloat(a); ok {
		bn, bok := toFloat(b)
		return bok && an == bn
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}

		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			x, _ := av.Get(k)
			y, present := bv.Get(k)
			if !present || !equalValue(x, y) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// canonicalBytes returns the deterministic serialized form of a value, used
// as the identity key for value-dictionary deduplication.
func canonicalBytes(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// obj builds an ordered object from alternating key/value pairs.
func obj(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}

	return o
}

func TestObjectOrder(t *testing.T) {
	o := obj("b", 1, "a", 2, "c", 3)
	require.Equal(t, []string{"b", "a", "c"}, o.Keys())

	// overwriting keeps the original position
	o.Set("a", 9)
	require.Equal(t, []string{"b", "a", "c"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	require.Equal(t, 9, v)

	require.True(t, o.Delete("b"))
	require.False(t, o.Delete("b"))
	require.Equal(t, []string{"a", "c"}, o.Keys())
	require.Equal(t, 2, o.Len())
}

func TestObjectMarshalOrder(t *testing.T) {
	o := obj("name", "Ann", "age", float64(30), "tags", []any{"x", "y"})
	data, err := EncodeValue(o)
	require.NoError(t, err)
	require.Equal(t, `{"name":"Ann","age":30,"tags":["x","y"]}`, string(data))
}

func TestDecodeValuePreservesOrder(t *testing.T) {
	src := `{"z":1,"a":{"n":null,"b":true},"list":[{"k":"v"},2.5]}`
	v, err := DecodeValue([]byte(src))
	require.NoError(t, err)

	o, ok := v.(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"z", "a", "list"}, o.Keys())

	nested, _ := o.Get("a")
	no, ok := nested.(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"n", "b"}, no.Keys())

	// byte-exact round trip
	out, err := EncodeValue(v)
	require.NoError(t, err)
	require.Equal(t, src, string(out))
}

func TestNormalizeSortsMapKeys(t *testing.T) {
	v := Normalize(map[string]any{"c": 1, "a": map[string]any{"z": 2, "b": 3}, "b": []any{map[string]any{"y": 1, "x": 2}}})
	o, ok := v.(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, o.Keys())

	inner, _ := o.Get("a")
	require.Equal(t, []string{"b", "z"}, inner.(*Object).Keys())

	arr, _ := o.Get("b")
	elem := arr.([]any)[0].(*Object)
	require.Equal(t, []string{"x", "y"}, elem.Keys())
}

func TestNormalizeCopiesObjects(t *testing.T) {
	src := obj("a", obj("b", 1))
	dup := Normalize(src).(*Object)
	dup.Set("a", "changed")

	orig, _ := src.Get("a")
	_, isObj := orig.(*Object)
	require.True(t, isObj, "normalize must not alias the source object")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{"scalars", "x", "x", true},
		{"numeric cross type", 30, float64(30), true},
		{"numeric mismatch", 30, float64(31), false},
		{"nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"key order insignificant", obj("a", 1, "b", 2), obj("b", 2, "a", 1), true},
		{"object vs map", obj("a", 1), map[string]any{"a": 1}, true},
		{"missing key", obj("a", 1), obj("a", 1, "b", 2), false},
		{"arrays ordered", []any{1, 2}, []any{2, 1}, false},
		{"nested", obj("a", []any{obj("x", nil)}), map[string]any{"a": []any{map[string]any{"x": nil}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestIsReservedKey(t *testing.T) {
	assert.True(t, IsReservedKey("_field_codes"))
	assert.True(t, IsReservedKey("_x"))
	assert.False(t, IsReservedKey("x"))
	assert.False(t, IsReservedKey(""))
	assert.False(t, IsReservedKey("x_"))
}

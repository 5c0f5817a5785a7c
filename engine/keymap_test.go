package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyMappingWorkedExample(t *testing.T) {
	cfg := NewKeyMappingConfig()
	data := obj("name", "Ann", "age", 30)
	got := applyKeyMapping(data, cfg).(*Object)

	out, err := EncodeValue(got)
	require.NoError(t, err)
	require.Equal(t, `{"F0":"Ann","F1":30,"_field_codes":{"name":"F0","age":"F1"}}`, string(out))
}

func TestKeyMappingFirstSeenOrderAcrossCall(t *testing.T) {
	cfg := NewKeyMappingConfig()
	// "id" appears nested before "top2" appears at the top level; codes are
	// minted call-wide in first-seen order, not per object level.
	data := obj(
		"top1", obj("id", 1),
		"top2", obj("id", 2),
	)
	got := applyKeyMapping(data, cfg).(*Object)

	codesRaw, ok := got.Get(KeyFieldCodes)
	require.True(t, ok)
	codes := codesRaw.(*Object)
	require.Equal(t, []string{"top1", "id", "top2"}, codes.Keys())

	code, _ := codes.Get("id")
	require.Equal(t, "F1", code)
	code, _ = codes.Get("top2")
	require.Equal(t, "F2", code)
}

func TestKeyMappingSharedCodeForRepeatedKey(t *testing.T) {
	cfg := NewKeyMappingConfig()
	data := obj("rows", []any{obj("id", 1, "name", "a"), obj("id", 2, "name", "b")})
	got := applyKeyMapping(data, cfg).(*Object)

	rows, _ := got.Get("F0")
	first := rows.([]any)[0].(*Object)
	second := rows.([]any)[1].(*Object)
	require.Equal(t, first.Keys(), second.Keys(), "repeated keys must reuse the same code")

	codes, _ := got.Get(KeyFieldCodes)
	require.Equal(t, 3, codes.(*Object).Len())
}

func TestKeyMappingManualOverridesConsumeNoCounter(t *testing.T) {
	cfg := &KeyMappingConfig{
		Enabled:    true,
		Mapping:    map[string]string{"name": "NAME"},
		CodePrefix: "F",
	}
	data := obj("name", "Ann", "age", 30, "city", "Oslo")
	got := applyKeyMapping(data, cfg).(*Object)

	require.True(t, got.Has("NAME"))
	require.True(t, got.Has("F0"), "age should take the first auto code")
	require.True(t, got.Has("F1"), "city should take the second auto code")

	codes, _ := got.Get(KeyFieldCodes)
	nameCode, _ := codes.(*Object).Get("name")
	require.Equal(t, "NAME", nameCode, "overrides must appear in the emitted table")
}

func TestKeyMappingCounterStartAndPrefix(t *testing.T) {
	cfg := &KeyMappingConfig{Enabled: true, CodePrefix: "K", CounterStart: 5}
	got := applyKeyMapping(obj("a", 1, "b", 2), cfg).(*Object)
	require.Equal(t, []string{"K5", "K6", KeyFieldCodes}, got.Keys())
}

func TestKeyMappingReservedKeysUntouched(t *testing.T) {
	cfg := NewKeyMappingConfig()
	data := obj("_meta", obj("inner", 1), "a", obj("_x", 2, "b", 3))
	got := applyKeyMapping(data, cfg).(*Object)

	meta, ok := got.Get("_meta")
	require.True(t, ok)
	require.True(t, Equal(obj("inner", 1), meta), "reserved values are opaque pass-through")

	a, _ := got.Get("F0")
	ao := a.(*Object)
	require.True(t, ao.Has("_x"))
	require.True(t, ao.Has("F1"))
}

func TestKeyMappingTopLevelArray(t *testing.T) {
	cfg := NewKeyMappingConfig()
	got := applyKeyMapping([]any{obj("a", 1), obj("a", 2)}, cfg)

	arr, ok := got.([]any)
	require.True(t, ok)
	// no top-level object to carry the table; elements are still mapped
	require.True(t, arr[0].(*Object).Has("F0"))
	require.True(t, arr[1].(*Object).Has("F0"))
}

func TestReverseKeyMapping(t *testing.T) {
	cfg := NewKeyMappingConfig()
	data := obj("name", "Ann", "nested", obj("name", "Bob", "age", 1), "list", []any{obj("age", 2)})
	mapped := applyKeyMapping(data, cfg)

	restored := reverseKeyMapping(mapped)
	require.True(t, Equal(data, restored), "got %v", restored)
	require.False(t, restored.(*Object).Has(KeyFieldCodes))
}

func TestReverseKeyMappingTolerant(t *testing.T) {
	// partial table: only "F0" is known; unknown codes and original names
	// pass through unchanged
	data := obj(
		KeyFieldCodes, obj("name", "F0"),
		"F0", "Ann",
		"F9", 1,
		"plain", true,
	)
	restored := reverseKeyMapping(data).(*Object)
	require.True(t, restored.Has("name"))
	require.True(t, restored.Has("F9"))
	require.True(t, restored.Has("plain"))
}

func TestReverseKeyMappingWithoutTable(t *testing.T) {
	data := obj("a", 1)
	require.True(t, Equal(data, reverseKeyMapping(data)))
	require.Equal(t, "scalar", reverseKeyMapping("scalar"))
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterInclude(t *testing.T) {
	data := obj(
		"a", 1,
		"secret", 2,
		"nested", obj("a", 3, "secret", 4),
		"list", []any{obj("a", 5, "b", 6)},
	)
	got := applyFilter(data, &FilterConfig{IncludeFields: []string{"a", "nested", "list"}})

	want := obj(
		"a", 1,
		"nested", obj("a", 3),
		"list", []any{obj("a", 5)},
	)
	require.True(t, Equal(want, got), "got %v", got)
}

func TestFilterExclude(t *testing.T) {
	data := obj("a", 1, "secret", 2, "nested", obj("b", 3, "secret", 4))
	got := applyFilter(data, &FilterConfig{ExcludeFields: []string{"secret"}})

	want := obj("a", 1, "nested", obj("b", 3))
	require.True(t, Equal(want, got), "got %v", got)
}

func TestFilterIncludeWinsOverExclude(t *testing.T) {
	data := obj("a", 1, "b", 2)
	got := applyFilter(data, &FilterConfig{
		IncludeFields: []string{"a"},
		ExcludeFields: []string{"a"},
	})
	require.True(t, Equal(obj("a", 1), got))
}

func TestFilterEmptySetsAreUnset(t *testing.T) {
	data := obj("a", 1, "b", 2)
	got := applyFilter(data, &FilterConfig{IncludeFields: []string{}, ExcludeFields: []string{"b"}})
	require.True(t, Equal(obj("a", 1), got))
}

func TestFilterKeepsReservedKeys(t *testing.T) {
	data := obj(
		"_meta", obj("secret", 1),
		"secret", 2,
		"nested", obj("_inner", 3, "secret", 4),
	)
	got := applyFilter(data, &FilterConfig{ExcludeFields: []string{"secret"}}).(*Object)

	require.True(t, got.Has("_meta"))
	meta, _ := got.Get("_meta")
	// reserved values are opaque pass-through, not recursed into
	require.True(t, Equal(obj("secret", 1), meta))

	nested, _ := got.Get("nested")
	require.True(t, Equal(obj("_inner", 3), nested))
}

func TestFilterAppliesAtEveryDepth(t *testing.T) {
	data := obj("keep", obj("keep", obj("keep", 1, "drop", 2)))
	got := applyFilter(data, &FilterConfig{ExcludeFields: []string{"drop"}})
	require.True(t, Equal(obj("keep", obj("keep", obj("keep", 1))), got))
}

func TestFilterScalarsAndArrays(t *testing.T) {
	require.Equal(t, "x", applyFilter("x", &FilterConfig{ExcludeFields: []string{"x"}}))
	got := applyFilter([]any{obj("drop", 1, "keep", 2)}, &FilterConfig{IncludeFields: []string{"keep"}})
	require.True(t, Equal([]any{obj("keep", 2)}, got))
}

package engine

import (
	"bytes"

	"github.com/jeffn0rD/jsonpack/internal/hash"
)

// Column-set field names for dictionary-compressed columns.
const (
	dictUniqueKey = "unique"
	dictRefKey    = "ref"
)

// applyTabular re-lays selected arrays of objects into columnar form.
//
// Candidate discovery is top-level only: for each top-level key named in
// cfg.TabularFields whose value is a non-empty array of objects, the array
// is removed from the main object and its column set is stored under the
// _tabular_arrays sidecar, keyed by the original field name. Anything that
// does not qualify is left in place untouched (best-effort, never an error).
func applyTabular(v any, cfg *TabularConfig) any {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	fields := toSet(cfg.TabularFields)
	if fields == nil {
		return v
	}
	encoded := NewObject()
	out := NewObject()
	for _, k := range obj.Keys() {
		val, _ := obj.Get(k)
		if !IsReservedKey(k) {
			if _, selected := fields[k]; selected {
				if rows, ok := tabularRows(val); ok {
					encoded.Set(k, encodeColumns(rows, cfg))
					continue
				}
			}
		}
		out.Set(k, val)
	}
	if encoded.Len() > 0 {
		out.Set(KeyTabularArrays, encoded)
	}

	return out
}

// tabularRows reports whether v is a usable candidate: a non-empty array
// whose rows are all objects. Arrays with any non-object row are skipped
// whole rather than encoded halfway.
func tabularRows(v any) ([]*Object, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	rows := make([]*Object, len(arr))
	for i, item := range arr {
		obj, ok := item.(*Object)
		if !ok {
			return nil, false
		}
		rows[i] = obj
	}

	return rows, true
}

// encodeColumns builds the column set for one array of rows: one column per
// field in the union of all non-reserved row keys, in first-seen order, with
// missing values as null. When a compression ratio is configured, columns
// whose distinct-value ratio falls below 1 - ratio are replaced by a
// {unique, ref} value dictionary.
func encodeColumns(rows []*Object, cfg *TabularConfig) *Object {
	var columnKeys []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, k := range row.Keys() {
			if IsReservedKey(k) {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columnKeys = append(columnKeys, k)
			}
		}
	}

	cols := NewObject()
	for _, k := range columnKeys {
		column := make([]any, len(rows))
		for i, row := range rows {
			if val, ok := row.Get(k); ok {
				column[i] = val
			} else {
				column[i] = nil
			}
		}
		if cfg.CompressionRatio != nil {
			if dict, ok := dictionaryEncode(column, *cfg.CompressionRatio); ok {
				cols.Set(k, dict)
				continue
			}
		}
		cols.Set(k, column)
	}

	return cols
}

// dictEntry records one unique value's canonical bytes and its index, for
// hash-hit verification.
type dictEntry struct {
	canon []byte
	index int
}

// dictionaryEncode dedups a column into {unique, ref} when its distinct
// ratio is below 1 - ratio. Unique values keep first-seen insertion order so
// the output is deterministic. Values are identified by the xxHash64 of
// their canonical JSON bytes, with the bytes compared on hash hits so nested
// objects and arrays dedup correctly. Nulls stay null in ref and never enter
// the unique list.
func dictionaryEncode(column []any, ratio float64) (*Object, bool) {
	index := make(map[uint64][]dictEntry)
	var unique []any
	ref := make([]any, len(column))
	hasNull := false

	for i, v := range column {
		if v == nil {
			ref[i] = nil
			hasNull = true
			continue
		}
		canon, err := canonicalBytes(v)
		if err != nil {
			return nil, false
		}
		h := hash.Sum64(canon)
		pos := -1
		for _, e := range index[h] {
			if bytes.Equal(e.canon, canon) {
				pos = e.index
				break
			}
		}
		if pos < 0 {
			pos = len(unique)
			unique = append(unique, v)
			index[h] = append(index[h], dictEntry{canon: canon, index: pos})
		}
		ref[i] = pos
	}

	distinct := len(unique)
	if hasNull {
		distinct++
	}
	if float64(distinct)/float64(len(column)) >= 1.0-ratio {
		return nil, false
	}

	dict := NewObject()
	dict.Set(dictUniqueKey, unique)
	dict.Set(dictRefKey, ref)

	return dict, true
}

// reverseTabular reconstructs every array stored under _tabular_arrays and
// re-inserts it under its original key, then drops the sidecar. Values
// without the sidecar pass through unchanged.
func reverseTabular(v any) any {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	raw, ok := obj.Get(KeyTabularArrays)
	if !ok {
		return v
	}
	encoded, ok := raw.(*Object)
	if !ok {
		return v
	}
	out := NewObject()
	for _, k := range obj.Keys() {
		if k == KeyTabularArrays {
			continue
		}
		val, _ := obj.Get(k)
		out.Set(k, val)
	}
	for _, field := range encoded.Keys() {
		colsRaw, _ := encoded.Get(field)
		cols, ok := colsRaw.(*Object)
		if !ok {
			continue
		}
		out.Set(field, decodeColumns(cols))
	}

	return out
}

// decodeColumns rebuilds the row objects from a column set. The row count
// comes from any column's length (or its ref length when dictionary
// compressed); per row, each column resolves to the raw value or
// unique[ref[i]], with null refs staying null.
func decodeColumns(cols *Object) []any {
	count := 0
	for _, k := range cols.Keys() {
		v, _ := cols.Get(k)
		switch col := v.(type) {
		case []any:
			count = len(col)
		case *Object:
			if refRaw, ok := col.Get(dictRefKey); ok {
				if ref, ok := refRaw.([]any); ok {
					count = len(ref)
				}
			}
		}
		if count > 0 {
			break
		}
	}

	rows := make([]any, count)
	for i := 0; i < count; i++ {
		row := NewObject()
		for _, k := range cols.Keys() {
			v, _ := cols.Get(k)
			switch col := v.(type) {
			case []any:
				if i < len(col) {
					row.Set(k, col[i])
				} else {
					row.Set(k, nil)
				}
			case *Object:
				row.Set(k, dictValueAt(col, i))
			}
		}
		rows[i] = row
	}

	return rows
}

func dictValueAt(dict *Object, i int) any {
	uniqueRaw, _ := dict.Get(dictUniqueKey)
	unique, _ := uniqueRaw.([]any)
	refRaw, _ := dict.Get(dictRefKey)
	ref, _ := refRaw.([]any)
	if i >= len(ref) || ref[i] == nil {
		return nil
	}
	// ref indices arrive as int from the encoder but as float64 after a
	// serialization round trip through a packed artifact.
	idx, ok := toInt(ref[i])
	if !ok || idx < 0 || idx >= len(unique) {
		return nil
	}

	return unique[idx]
}

package engine

import "strconv"

// FieldCodeTable accumulates the key-to-code mapping for one compression
// call. It is allocated by the traversal that uses it and discarded on
// return; no table ever outlives a call.
//
// Codes are minted in first-seen order across the whole traversal, not per
// object level. Manual overrides from the config take precedence and do not
// advance the counter.
type FieldCodeTable struct {
	prefix    string
	counter   int
	overrides map[string]string
	codes     map[string]string // original key -> code
	order     []string          // original keys in first-seen order
}

func newFieldCodeTable(cfg *KeyMappingConfig) *FieldCodeTable {
	return &FieldCodeTable{
		prefix:    cfg.codePrefix(),
		counter:   cfg.CounterStart,
		overrides: cfg.Mapping,
		codes:     make(map[string]string),
	}
}

// CodeFor returns the code for key, minting one on first sight.
func (t *FieldCodeTable) CodeFor(key string) string {
	if code, ok := t.codes[key]; ok {
		return code
	}
	code, ok := t.overrides[key]
	if !ok {
		code = t.prefix + strconv.Itoa(t.counter)
		t.counter++
	}
	t.codes[key] = code
	t.order = append(t.order, key)

	return code
}

// Len returns the number of distinct keys encountered.
func (t *FieldCodeTable) Len() int {
	return len(t.order)
}

// toObject renders the table as an ordered original-key -> code object,
// the form stored under the _field_codes sidecar.
func (t *FieldCodeTable) toObject() *Object {
	out := NewObject()
	for _, key := range t.order {
		out.Set(key, t.codes[key])
	}

	return out
}

// applyKeyMapping replaces every non-reserved key in v with a short code in
// a single depth-first traversal sharing one FieldCodeTable, then records the
// table under _field_codes at the top level. The table is call-scoped, so it
// is not duplicated at nested levels.
func applyKeyMapping(v any, cfg *KeyMappingConfig) any {
	table := newFieldCodeTable(cfg)
	out := mapKeys(v, table)
	if obj, ok := out.(*Object); ok {
		obj.Set(KeyFieldCodes, table.toObject())
	}

	return out
}

func mapKeys(v any, table *FieldCodeTable) any {
	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			if IsReservedKey(k) {
				out.Set(k, child)
				continue
			}
			out.Set(table.CodeFor(k), mapKeys(child, table))
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = mapKeys(item, table)
		}

		return out
	default:
		return val
	}
}

// reverseKeyMapping reads the _field_codes sidecar, inverts it, and rewrites
// every non-reserved key that matches a known code back to its original
// name. Keys with no match pass through unchanged, which makes the inverse
// tolerant of partial tables at the cost of silently keeping unrecognized
// codes. Without a sidecar the value is returned as-is.
func reverseKeyMapping(v any) any {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	raw, ok := obj.Get(KeyFieldCodes)
	if !ok {
		return v
	}
	codes, ok := raw.(*Object)
	if !ok {
		return v
	}
	decode := make(map[string]string, codes.Len())
	for _, original := range codes.Keys() {
		if code, ok := codes.Get(original); ok {
			if s, ok := code.(string); ok {
				decode[s] = original
			}
		}
	}
	out, _ := restoreKeys(obj, decode).(*Object)
	out.Delete(KeyFieldCodes)

	return out
}

func restoreKeys(v any, decode map[string]string) any {
	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			if IsReservedKey(k) {
				out.Set(k, child)
				continue
			}
			key := k
			if original, ok := decode[k]; ok {
				key = original
			}
			out.Set(key, restoreKeys(child, decode))
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = restoreKeys(item, decode)
		}

		return out
	default:
		return val
	}
}

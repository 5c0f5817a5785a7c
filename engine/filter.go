package engine

// applyFilter returns a structurally equivalent value with fields dropped
// according to cfg at every nesting depth. Reserved keys always survive and
// their values are copied verbatim. The filter has no inverse: dropped data
// is gone.
//
// The depth-uniform behavior (same include/exclude sets at every level,
// unlike flatten's max depth or tabular's top-level-only scope) is kept as
// observed behavior; see DESIGN.md.
func applyFilter(v any, cfg *FilterConfig) any {
	// Empty sets behave as unset, so include-everything falls through to
	// the exclude list.
	include := toSet(cfg.IncludeFields)
	exclude := toSet(cfg.ExcludeFields)

	return filterValue(v, include, exclude)
}

func filterValue(v any, include, exclude map[string]struct{}) any {
	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			if IsReservedKey(k) {
				out.Set(k, child)
				continue
			}
			if include != nil {
				if _, ok := include[k]; !ok {
					continue
				}
			} else if exclude != nil {
				if _, ok := exclude[k]; ok {
					continue
				}
			}
			out.Set(k, filterValue(child, include, exclude))
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = filterValue(item, include, exclude)
		}

		return out
	default:
		return val
	}
}

func toSet(fields []string) map[string]struct{} {
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return set
}

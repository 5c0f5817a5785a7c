package engine

// CompressJSON runs the enabled stages over data in fixed order:
// filter -> flatten -> key-map -> tabular-encode. Empty input is returned
// unchanged; a malformed config yields an ErrInvalidConfig error with no
// partial output.
//
// When the final value is an object, the _compression_metadata sidecar is
// appended with exactly strategy, preserve_types and compression_level.
//
// Map inputs (map[string]any) are normalized with sorted key order; pass
// *Object values to control key order explicitly. The returned value never
// aliases the input.
func CompressJSON(data any, cfg *CompressionConfig) (any, error) {
	if isEmptyValue(data) {
		return data, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v := Normalize(data)
	if cfg.Filter != nil {
		v = applyFilter(v, cfg.Filter)
	}
	if cfg.Flatten != nil && cfg.Flatten.Enabled {
		v = flattenValue(v, cfg.Flatten)
	}
	if cfg.KeyMapping != nil && cfg.KeyMapping.Enabled {
		v = applyKeyMapping(v, cfg.KeyMapping)
	}
	if cfg.Tabular != nil && cfg.Tabular.Enabled {
		v = applyTabular(v, cfg.Tabular)
	}

	if obj, ok := v.(*Object); ok {
		meta := NewObject()
		meta.Set("strategy", cfg.Strategy)
		meta.Set("preserve_types", cfg.PreserveTypes)
		meta.Set("compression_level", cfg.CompressionLevel)
		obj.Set(KeyCompressionMetadata, meta)
	}

	return v, nil
}

// DecompressJSON undoes CompressJSON, running the stage inverses in exact
// reverse order: reverse-tabular -> reverse-key-map -> reverse-flatten ->
// strip of the remaining top-level reserved keys including
// _compression_metadata.
//
// cfg may be nil, in which case a minimal config is reconstructed from the
// _compression_metadata sidecar. Only strategy, preserve_types and
// compression_level are recoverable that way; sub-stage parameters such as
// the flatten delimiter are not, so full-fidelity decompression of flattened
// data requires the caller to retain the original config. With neither an
// explicit config nor a metadata sidecar, ErrInvalidConfig is returned.
//
// The tabular and key-map inverses are driven entirely by their sidecar keys
// and run whenever those are present; the flatten inverse needs the
// configured delimiter and runs only when cfg carries an enabled flatten
// stage. Data removed by the filter stage is never restored.
func DecompressJSON(data any, cfg *CompressionConfig) (any, error) {
	if isEmptyValue(data) {
		return data, nil
	}

	v := Normalize(data)
	if cfg == nil {
		cfg = configFromMetadata(v)
		if cfg == nil {
			return nil, invalidConfig("no config given and no %s sidecar present", KeyCompressionMetadata)
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v = reverseTabular(v)
	v = reverseKeyMapping(v)
	if cfg.Flatten != nil && cfg.Flatten.Enabled {
		v = unflattenValue(v, cfg.Flatten)
	}

	if obj, ok := v.(*Object); ok {
		out := NewObject()
		for _, k := range obj.Keys() {
			if IsReservedKey(k) {
				continue
			}
			val, _ := obj.Get(k)
			out.Set(k, val)
		}
		v = out
	}

	return v, nil
}

// configFromMetadata rebuilds the minimal config recoverable from the
// _compression_metadata sidecar, or nil when the sidecar is absent.
func configFromMetadata(v any) *CompressionConfig {
	obj, ok := v.(*Object)
	if !ok {
		return nil
	}
	raw, ok := obj.Get(KeyCompressionMetadata)
	if !ok {
		return nil
	}
	meta, ok := raw.(*Object)
	if !ok {
		return nil
	}
	cfg := NewCompressionConfig("")
	if s, ok := meta.Get("strategy"); ok {
		if str, ok := s.(string); ok {
			cfg.Strategy = str
		}
	}
	if p, ok := meta.Get("preserve_types"); ok {
		if b, ok := p.(bool); ok {
			cfg.PreserveTypes = b
		}
	}
	if l, ok := meta.Get("compression_level"); ok {
		if n, ok := toInt(l); ok {
			cfg.CompressionLevel = n
		}
	}

	return cfg
}

// isEmptyValue implements the empty/falsy short-circuit: nil, false, zero,
// the empty string, and empty containers compress and decompress to
// themselves.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case *Object:
		return val == nil || val.Len() == 0
	default:
		return false
	}
}

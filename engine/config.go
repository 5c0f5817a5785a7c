package engine

// Defaults applied by the constructors and by FromMap.
const (
	// DefaultDelimiter joins parent and child keys in the flatten stage.
	DefaultDelimiter = "."
	// DefaultCodePrefix prefixes generated field codes ("F0", "F1", ...).
	DefaultCodePrefix = "F"
	// DefaultCompressionLevel is a caller-facing hint recorded in metadata.
	DefaultCompressionLevel = 50
)

// FilterConfig drops fields by name. When IncludeFields is non-empty only
// those fields survive; otherwise ExcludeFields names the fields to drop.
// The filter applies uniformly at every nesting depth and has no inverse:
// filtered data is unrecoverable.
type FilterConfig struct {
	IncludeFields []string
	ExcludeFields []string
}

// FlattenConfig controls the nested-object flatten stage.
type FlattenConfig struct {
	Enabled   bool
	Delimiter string
	// MaxDepth bounds how deep flattening recurses; nil means unbounded.
	MaxDepth *int
}

// NewFlattenConfig returns an enabled flatten stage with the "." delimiter.
func NewFlattenConfig() *FlattenConfig {
	return &FlattenConfig{Enabled: true, Delimiter: DefaultDelimiter}
}

func (c *FlattenConfig) delimiter() string {
	if c.Delimiter == "" {
		return DefaultDelimiter
	}

	return c.Delimiter
}

// KeyMappingConfig controls the key-to-code substitution stage.
type KeyMappingConfig struct {
	Enabled bool
	// Mapping holds manual key-to-code overrides. Overrides do not consume
	// the counter; it only advances for auto-generated codes.
	Mapping      map[string]string
	CodePrefix   string
	CounterStart int
}

// NewKeyMappingConfig returns an enabled key-mapping stage with prefix "F"
// and counter start 0.
func NewKeyMappingConfig() *KeyMappingConfig {
	return &KeyMappingConfig{Enabled: true, CodePrefix: DefaultCodePrefix}
}

func (c *KeyMappingConfig) codePrefix() string {
	if c.CodePrefix == "" {
		return DefaultCodePrefix
	}

	return c.CodePrefix
}

// TabularConfig controls the columnar re-layout of arrays of objects.
type TabularConfig struct {
	Enabled bool
	// KeyColumn optionally names the column identifying each row.
	KeyColumn string
	// TabularFields lists the top-level keys eligible for columnar encoding.
	TabularFields []string
	// CompressionRatio, when set, enables per-column value-dictionary
	// compression: a column is dictionary-encoded when its distinct-value
	// ratio falls below 1 - CompressionRatio. Must lie in [0, 1].
	CompressionRatio *float64
}

// NewTabularConfig returns an enabled tabular stage for the given fields.
func NewTabularConfig(fields ...string) *TabularConfig {
	return &TabularConfig{Enabled: true, TabularFields: fields}
}

// CompressionConfig aggregates the per-stage configurations. A nil stage
// pointer disables that stage. Configs are plain data: construct once, pass
// to CompressJSON/DecompressJSON, and retain for full-fidelity decompression.
type CompressionConfig struct {
	Strategy         string
	Filter           *FilterConfig
	Flatten          *FlattenConfig
	KeyMapping       *KeyMappingConfig
	Tabular          *TabularConfig
	PreserveTypes    bool
	CompressionLevel int
	CustomMetadata   map[string]any
}

// NewCompressionConfig returns a config with no stages enabled,
// preserve_types on, and the default compression level.
func NewCompressionConfig(strategy string) *CompressionConfig {
	return &CompressionConfig{
		Strategy:         strategy,
		PreserveTypes:    true,
		CompressionLevel: DefaultCompressionLevel,
	}
}

// Validate reports whether the config is well-formed. All violations wrap
// ErrInvalidConfig.
func (c *CompressionConfig) Validate() error {
	if c == nil {
		return invalidConfig("config is nil")
	}
	if c.Strategy == "" {
		return invalidConfig("strategy must not be empty")
	}
	if c.KeyMapping != nil && c.KeyMapping.CounterStart < 0 {
		return invalidConfig("key_mapping counter_start must not be negative")
	}
	if c.Flatten != nil && c.Flatten.MaxDepth != nil && *c.Flatten.MaxDepth < 0 {
		return invalidConfig("flatten max_depth must not be negative")
	}
	if c.Tabular != nil && c.Tabular.CompressionRatio != nil {
		if r := *c.Tabular.CompressionRatio; r < 0 || r > 1 {
			return invalidConfig("tabular compression_ratio %v outside [0, 1]", r)
		}
	}

	return nil
}

// External field names used by ToMap/FromMap for file-based persistence.
const (
	fieldStrategy         = "strategy"
	fieldFilter           = "filter"
	fieldFlatten          = "flatten"
	fieldKeyMapping       = "key_mapping"
	fieldTabular          = "tabular"
	fieldPreserveTypes    = "preserve_types"
	fieldCompressionLevel = "compression_level"
	fieldMetadata         = "metadata"
)

// ToMap converts the config to a plain nested map for persistence.
// FromMap(c.ToMap()) reproduces an equivalent config.
func (c *CompressionConfig) ToMap() map[string]any {
	m := map[string]any{
		fieldStrategy:         c.Strategy,
		fieldPreserveTypes:    c.PreserveTypes,
		fieldCompressionLevel: c.CompressionLevel,
	}
	if c.Filter != nil {
		fm := map[string]any{}
		if c.Filter.IncludeFields != nil {
			fm["include_fields"] = append([]string{}, c.Filter.IncludeFields...)
		}
		if c.Filter.ExcludeFields != nil {
			fm["exclude_fields"] = append([]string{}, c.Filter.ExcludeFields...)
		}
		m[fieldFilter] = fm
	}
	if c.Flatten != nil {
		fm := map[string]any{
			"enabled":   c.Flatten.Enabled,
			"delimiter": c.Flatten.delimiter(),
		}
		if c.Flatten.MaxDepth != nil {
			fm["max_depth"] = *c.Flatten.MaxDepth
		}
		m[fieldFlatten] = fm
	}
	if c.KeyMapping != nil {
		km := map[string]any{
			"enabled":       c.KeyMapping.Enabled,
			"code_prefix":   c.KeyMapping.codePrefix(),
			"counter_start": c.KeyMapping.CounterStart,
		}
		if c.KeyMapping.Mapping != nil {
			mapping := make(map[string]string, len(c.KeyMapping.Mapping))
			for k, v := range c.KeyMapping.Mapping {
				mapping[k] = v
			}
			km["mapping"] = mapping
		}
		m[fieldKeyMapping] = km
	}
	if c.Tabular != nil {
		tm := map[string]any{
			"enabled": c.Tabular.Enabled,
		}
		if c.Tabular.KeyColumn != "" {
			tm["key_column"] = c.Tabular.KeyColumn
		}
		if c.Tabular.TabularFields != nil {
			tm["tabular_fields"] = append([]string{}, c.Tabular.TabularFields...)
		}
		if c.Tabular.CompressionRatio != nil {
			tm["compression_ratio"] = *c.Tabular.CompressionRatio
		}
		m[fieldTabular] = tm
	}
	if c.CustomMetadata != nil {
		m[fieldMetadata] = c.CustomMetadata
	}

	return m
}

// FromMap rebuilds a CompressionConfig from the plain map form produced by
// ToMap (or parsed from a JSON/YAML config file). Type mismatches wrap
// ErrInvalidConfig.
func FromMap(m map[string]any) (*CompressionConfig, error) {
	if m == nil {
		return nil, invalidConfig("config map is nil")
	}
	strategy, err := asString(m, fieldStrategy)
	if err != nil {
		return nil, err
	}
	cfg := NewCompressionConfig(strategy)

	if raw, ok := m[fieldPreserveTypes]; ok {
		b, ok := raw.(bool)
		if !ok {
			return nil, invalidConfig("preserve_types must be a bool, got %T", raw)
		}
		cfg.PreserveTypes = b
	}
	if raw, ok := m[fieldCompressionLevel]; ok {
		n, ok := toInt(raw)
		if !ok {
			return nil, invalidConfig("compression_level must be an integer, got %T", raw)
		}
		cfg.CompressionLevel = n
	}
	if raw, ok := m[fieldMetadata]; ok {
		meta, ok := raw.(map[string]any)
		if !ok {
			return nil, invalidConfig("metadata must be a map, got %T", raw)
		}
		cfg.CustomMetadata = meta
	}

	if sub, ok, err := subMap(m, fieldFilter); err != nil {
		return nil, err
	} else if ok {
		fc := &FilterConfig{}
		if fc.IncludeFields, err = optStringSlice(sub, "include_fields"); err != nil {
			return nil, err
		}
		if fc.ExcludeFields, err = optStringSlice(sub, "exclude_fields"); err != nil {
			return nil, err
		}
		cfg.Filter = fc
	}

	if sub, ok, err := subMap(m, fieldFlatten); err != nil {
		return nil, err
	} else if ok {
		fc := NewFlattenConfig()
		if fc.Enabled, err = optBool(sub, "enabled", true); err != nil {
			return nil, err
		}
		if d, err := optString(sub, "delimiter", DefaultDelimiter); err != nil {
			return nil, err
		} else {
			fc.Delimiter = d
		}
		if raw, present := sub["max_depth"]; present {
			n, ok := toInt(raw)
			if !ok {
				return nil, invalidConfig("flatten max_depth must be an integer, got %T", raw)
			}
			fc.MaxDepth = &n
		}
		cfg.Flatten = fc
	}

	if sub, ok, err := subMap(m, fieldKeyMapping); err != nil {
		return nil, err
	} else if ok {
		kc := NewKeyMappingConfig()
		if kc.Enabled, err = optBool(sub, "enabled", true); err != nil {
			return nil, err
		}
		if kc.CodePrefix, err = optString(sub, "code_prefix", DefaultCodePrefix); err != nil {
			return nil, err
		}
		if raw, present := sub["counter_start"]; present {
			n, ok := toInt(raw)
			if !ok {
				return nil, invalidConfig("key_mapping counter_start must be an integer, got %T", raw)
			}
			kc.CounterStart = n
		}
		if raw, present := sub["mapping"]; present {
			mapping, err := toStringMap(raw)
			if err != nil {
				return nil, err
			}
			kc.Mapping = mapping
		}
		cfg.KeyMapping = kc
	}

	if sub, ok, err := subMap(m, fieldTabular); err != nil {
		return nil, err
	} else if ok {
		tc := &TabularConfig{}
		if tc.Enabled, err = optBool(sub, "enabled", true); err != nil {
			return nil, err
		}
		if tc.KeyColumn, err = optString(sub, "key_column", ""); err != nil {
			return nil, err
		}
		if tc.TabularFields, err = optStringSlice(sub, "tabular_fields"); err != nil {
			return nil, err
		}
		if raw, present := sub["compression_ratio"]; present {
			f, ok := toFloat(raw)
			if !ok {
				return nil, invalidConfig("tabular compression_ratio must be a number, got %T", raw)
			}
			tc.CompressionRatio = &f
		}
		cfg.Tabular = tc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func subMap(m map[string]any, key string) (map[string]any, bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, false, invalidConfig("%s must be a map, got %T", key, raw)
	}

	return sub, true, nil
}

func asString(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", invalidConfig("missing required field %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidConfig("%s must be a string, got %T", key, raw)
	}

	return s, nil
}

func optString(m map[string]any, key, fallback string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidConfig("%s must be a string, got %T", key, raw)
	}

	return s, nil
}

func optBool(m map[string]any, key string, fallback bool) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return fallback, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, invalidConfig("%s must be a bool, got %T", key, raw)
	}

	return b, nil
}

func optStringSlice(m map[string]any, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch items := raw.(type) {
	case []string:
		return append([]string{}, items...), nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, invalidConfig("%s must contain strings, got %T", key, item)
			}
			out = append(out, s)
		}

		return out, nil
	default:
		return nil, invalidConfig("%s must be a list of strings, got %T", key, raw)
	}
}

func toStringMap(raw any) (map[string]string, error) {
	switch mapping := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(mapping))
		for k, v := range mapping {
			out[k] = v
		}

		return out, nil
	case map[string]any:
		out := make(map[string]string, len(mapping))
		for k, v := range mapping {
			s, ok := v.(string)
			if !ok {
				return nil, invalidConfig("mapping values must be strings, got %T", v)
			}
			out[k] = s
		}

		return out, nil
	default:
		return nil, invalidConfig("mapping must be a map of strings, got %T", raw)
	}
}

func toInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}

		return 0, false
	default:
		return 0, false
	}
}

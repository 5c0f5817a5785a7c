package engine

import (
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseConfigJSON parses a JSON config document into a CompressionConfig.
// The document uses the same field names as ToMap/FromMap.
func ParseConfigJSON(data []byte) (*CompressionConfig, error) {
	var m map[string]any
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, invalidConfig("parse json config: %v", err)
	}

	return FromMap(m)
}

// ParseConfigYAML parses a YAML config document into a CompressionConfig.
func ParseConfigYAML(data []byte) (*CompressionConfig, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, invalidConfig("parse yaml config: %v", err)
	}

	return FromMap(m)
}

// ToJSON serializes the config for file-based persistence.
func (c *CompressionConfig) ToJSON() ([]byte, error) {
	return gojson.Marshal(c.ToMap())
}

// ToYAML serializes the config for file-based persistence.
func (c *CompressionConfig) ToYAML() ([]byte, error) {
	return yaml.Marshal(c.ToMap())
}

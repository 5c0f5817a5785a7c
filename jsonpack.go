// Package jsonpack provides structural, reversible compression for parsed
// JSON values.
//
// The engine shrinks a JSON value itself rather than its serialized bytes:
// verbose field names are replaced by short codes from a per-call field-code
// dictionary, nested objects are flattened into delimiter-joined keys, and
// arrays of homogeneous objects are re-laid into columns with optional
// value-dictionary deduplication. Every transform except field filtering has
// an exact inverse, so a caller that retains the configuration can round-trip
// its data.
//
// # Basic Usage
//
// Compressing and decompressing a value:
//
//	cfg := jsonpack.NewCompressionConfig("llm-input")
//	cfg.KeyMapping = jsonpack.NewKeyMappingConfig()
//
//	compressed, _ := jsonpack.Compress(data, cfg)
//	restored, _ := jsonpack.Decompress(compressed, cfg)
//
// Packing to compact bytes (structural compression plus a byte codec):
//
//	blob, _ := jsonpack.Pack(data, cfg, jsonpack.WithCompression(format.CompressionZstd))
//	restored, _ := jsonpack.Unpack(blob, cfg)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the engine
// package, which holds the configuration model, the value model, and the
// stage implementations. The compress package supplies the byte codecs used
// by Pack and Unpack.
package jsonpack

import (
	"github.com/jeffn0rD/jsonpack/engine"
)

// Re-exported configuration and value types so that common usage needs a
// single import.
type (
	CompressionConfig = engine.CompressionConfig
	FilterConfig      = engine.FilterConfig
	FlattenConfig     = engine.FlattenConfig
	KeyMappingConfig  = engine.KeyMappingConfig
	TabularConfig     = engine.TabularConfig
	Object            = engine.Object
)

// NewCompressionConfig returns a config with no stages enabled.
func NewCompressionConfig(strategy string) *CompressionConfig {
	return engine.NewCompressionConfig(strategy)
}

// NewFlattenConfig returns an enabled flatten stage with the "." delimiter.
func NewFlattenConfig() *FlattenConfig {
	return engine.NewFlattenConfig()
}

// NewKeyMappingConfig returns an enabled key-mapping stage with prefix "F".
func NewKeyMappingConfig() *KeyMappingConfig {
	return engine.NewKeyMappingConfig()
}

// NewTabularConfig returns an enabled tabular stage for the given fields.
func NewTabularConfig(fields ...string) *TabularConfig {
	return engine.NewTabularConfig(fields...)
}

// Compress runs the enabled stages over data in fixed order and appends the
// _compression_metadata sidecar to object results. See engine.CompressJSON.
func Compress(data any, cfg *CompressionConfig) (any, error) {
	return engine.CompressJSON(data, cfg)
}

// Decompress undoes Compress, running the stage inverses in exact reverse
// order. cfg may be nil when the data carries a _compression_metadata
// sidecar. See engine.DecompressJSON.
func Decompress(data any, cfg *CompressionConfig) (any, error) {
	return engine.DecompressJSON(data, cfg)
}

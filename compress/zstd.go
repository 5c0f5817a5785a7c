package compress

// ZstdCompressor compresses artifact payloads with Zstandard.
//
// Zstd trades some speed for the best ratio of the supported codecs, which
// suits artifacts that travel over the network or sit in prompt budgets where
// every byte counts.
//
// The default build uses the pure-Go implementation; building with the
// `gozstd` tag switches to the cgo-backed libzstd bindings.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

package compress

import (
	"fmt"

	"github.com/jeffn0rD/jsonpack/format"
)

// Compressor compresses a serialized artifact payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a serialized artifact payload.
//
// The input must have been produced by the matching Compressor; the codec
// validates the data format and returns an error if the data is corrupted or
// uses an incompatible format.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Stats reports the outcome of compressing one artifact payload.
type Stats struct {
	// Algorithm identifies the compression algorithm used.
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression.
	OriginalSize int64

	// CompressedSize is the size of data after compression.
	CompressedSize int64
}

// Ratio returns compressed size divided by original size.
//
// Values less than 1.0 indicate successful compression; 0.0 is returned when
// the original size is zero.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

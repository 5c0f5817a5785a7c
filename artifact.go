package jsonpack

import (
	"fmt"

	"github.com/jeffn0rD/jsonpack/compress"
	"github.com/jeffn0rD/jsonpack/engine"
	"github.com/jeffn0rD/jsonpack/format"
	"github.com/jeffn0rD/jsonpack/internal/options"
)

// Artifact frame layout: magic, version byte, codec byte, payload.
const (
	artifactMagic   = "JPAK"
	artifactVersion = 0x1

	headerSize = len(artifactMagic) + 2
)

type packOptions struct {
	compression format.CompressionType
}

// PackOption configures Pack.
type PackOption = options.Option[*packOptions]

// WithCompression selects the byte codec applied to the serialized payload.
// The default is CompressionNone.
func WithCompression(compressionType format.CompressionType) PackOption {
	return options.New(func(o *packOptions) error {
		if !compressionType.Valid() {
			return fmt.Errorf("invalid artifact compression: %s", compressionType)
		}
		o.compression = compressionType

		return nil
	})
}

// Pack compresses data structurally, serializes the result, byte-compresses
// it with the selected codec, and frames it as a compact artifact:
//
//	"JPAK" | version | codec | payload
//
// Packing frames a return value; the engine itself never persists or caches
// artifacts across calls.
func Pack(data any, cfg *CompressionConfig, opts ...PackOption) ([]byte, error) {
	opt := &packOptions{compression: format.CompressionNone}
	if err := options.Apply(opt, opts...); err != nil {
		return nil, err
	}

	compressed, err := engine.CompressJSON(data, cfg)
	if err != nil {
		return nil, err
	}
	payload, err := engine.EncodeValue(compressed)
	if err != nil {
		return nil, fmt.Errorf("encode artifact payload: %w", err)
	}
	codec, err := compress.GetCodec(opt.compression)
	if err != nil {
		return nil, err
	}
	packed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress artifact payload: %w", err)
	}

	blob := make([]byte, 0, headerSize+len(packed))
	blob = append(blob, artifactMagic...)
	blob = append(blob, artifactVersion, byte(opt.compression))
	blob = append(blob, packed...)

	return blob, nil
}

// Unpack reverses Pack: it validates the frame, byte-decompresses the
// payload, parses it order-preserving, and runs Decompress. cfg may be nil
// when the payload carries a _compression_metadata sidecar.
func Unpack(blob []byte, cfg *CompressionConfig) (any, error) {
	if len(blob) < headerSize || string(blob[:len(artifactMagic)]) != artifactMagic {
		return nil, fmt.Errorf("not a jsonpack artifact")
	}
	if version := blob[len(artifactMagic)]; version != artifactVersion {
		return nil, fmt.Errorf("unsupported artifact version: %d", version)
	}
	compressionType := format.CompressionType(blob[len(artifactMagic)+1])
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(blob[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("decompress artifact payload: %w", err)
	}
	v, err := engine.DecodeValue(payload)
	if err != nil {
		return nil, fmt.Errorf("decode artifact payload: %w", err)
	}

	return engine.DecompressJSON(v, cfg)
}

// PackStats reports how much Pack shrank a payload relative to the plain
// serialization of the original value.
func PackStats(data any, blob []byte, compressionType format.CompressionType) (compress.Stats, error) {
	raw, err := engine.EncodeValue(engine.Normalize(data))
	if err != nil {
		return compress.Stats{}, err
	}

	return compress.Stats{
		Algorithm:      compressionType,
		OriginalSize:   int64(len(raw)),
		CompressedSize: int64(len(blob)),
	}, nil
}

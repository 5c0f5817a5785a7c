package jsonpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffn0rD/jsonpack/engine"
	"github.com/jeffn0rD/jsonpack/format"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		ctype format.CompressionType
	}{
		{"none", format.CompressionNone},
		{"zstd", format.CompressionZstd},
		{"s2", format.CompressionS2},
		{"lz4", format.CompressionLZ4},
	}
	cfg := demoConfig()
	data := demoData()
	want := demoData()
	want.Delete("internal")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Pack(data, cfg, WithCompression(tt.ctype))
			require.NoError(t, err)

			restored, err := Unpack(blob, cfg)
			require.NoError(t, err)
			require.True(t, engine.Equal(want, restored), "got %v", restored)
		})
	}
}

func TestPackDefaultCompression(t *testing.T) {
	cfg := demoConfig()
	blob, err := Pack(demoData(), cfg)
	require.NoError(t, err)
	require.Equal(t, byte(format.CompressionNone), blob[5])

	restored, err := Unpack(blob, cfg)
	require.NoError(t, err)

	want := demoData()
	want.Delete("internal")
	require.True(t, engine.Equal(want, restored))
}

func TestUnpackWithoutConfigUsesMetadata(t *testing.T) {
	cfg := NewCompressionConfig("sidecar")
	cfg.KeyMapping = NewKeyMappingConfig()
	data := engine.NewObject()
	data.Set("name", "Ann")
	data.Set("age", 30)

	blob, err := Pack(data, cfg, WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	restored, err := Unpack(blob, nil)
	require.NoError(t, err)
	require.True(t, engine.Equal(data, restored), "got %v", restored)
}

func TestPackDeterministic(t *testing.T) {
	cfg := demoConfig()
	first, err := Pack(demoData(), cfg, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	second, err := Pack(demoData(), cfg, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPackInvalidOption(t *testing.T) {
	_, err := Pack(demoData(), demoConfig(), WithCompression(format.CompressionType(0xee)))
	require.Error(t, err)
}

func TestPackInvalidConfig(t *testing.T) {
	_, err := Pack(engineObj("a", 1), nil)
	require.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestUnpackBadFrames(t *testing.T) {
	cfg := demoConfig()

	_, err := Unpack(nil, cfg)
	require.Error(t, err)

	_, err = Unpack([]byte("NOPE!!"), cfg)
	require.Error(t, err)

	blob, err := Pack(demoData(), cfg)
	require.NoError(t, err)

	bad := append([]byte{}, blob...)
	bad[4] = 0x7f // version
	_, err = Unpack(bad, cfg)
	require.Error(t, err)

	bad = append([]byte{}, blob...)
	bad[5] = 0xee // codec
	_, err = Unpack(bad, cfg)
	require.Error(t, err)
}

func TestPackStats(t *testing.T) {
	cfg := demoConfig()
	data := demoData()
	blob, err := Pack(data, cfg, WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	stats, err := PackStats(data, blob, format.CompressionZstd)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Greater(t, stats.OriginalSize, int64(0))
	require.Greater(t, stats.CompressedSize, int64(0))
}

func engineObj(pairs ...any) *Object {
	o := engine.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}

	return o
}

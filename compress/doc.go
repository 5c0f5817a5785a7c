// Package compress provides byte-level codecs for packed jsonpack artifacts.
//
// The engine's structural stages (filtering, flattening, key mapping, tabular
// encoding) shrink the JSON value itself; this package supplies the second,
// optional layer that shrinks the serialized artifact bytes. Serialized JSON
// text is highly repetitive (quoted keys, field codes, dictionary indices),
// so even fast codecs reach good ratios on it.
//
// Supported algorithms:
//   - None: pass-through (debugging, already-compressed payloads)
//   - Zstd: best ratio, moderate speed (pure Go by default, cgo behind the
//     gozstd build tag)
//   - S2: very fast, good ratio for large payloads
//   - LZ4: fastest, moderate ratio
//
// All codecs are stateless values safe for concurrent use; internal
// encoder/decoder instances are pooled.
package compress

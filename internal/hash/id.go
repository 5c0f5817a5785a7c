package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum64 computes the xxHash64 of the given byte slice.
//
// The tabular value dictionary keys its seen-value index by the hash of each
// value's canonical JSON bytes; callers must verify the bytes on a hash hit
// before treating two values as equal.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

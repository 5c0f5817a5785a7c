package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the single error category the engine produces: the
// configuration argument is not a well-formed CompressionConfig, or
// decompression has neither an explicit config nor a usable
// _compression_metadata sidecar. All stages themselves are total functions
// over parsed values and cannot fail.
var ErrInvalidConfig = errors.New("invalid compression config")

func invalidConfig(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(msg, args...))
}

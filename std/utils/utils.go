package utils

import (
	"encoding/binary"
	"time"

	"github.com/named-data/ndnd/std/types/optional"
)

// NDNdVersion is the version string reported by management and the CLI.
const NDNdVersion = "0.1.0-dev"

// IdPtr returns a pointer to a copy of val. Useful for optional proto/TLV
// fields that are expressed as pointers.
func IdPtr[T any](val T) *T {
	return &val
}

// MakeTimestamp converts t to milliseconds since the Unix epoch, the unit
// NDN management datasets use for timestamps.
func MakeTimestamp(t time.Time) uint64 {
	return uint64(t.UnixMilli())
}

// ConvertNonce interprets a 4-byte big-endian Nonce field as a uint32.
// Returns an empty Optional if b is not exactly 4 bytes.
func ConvertNonce(b []byte) optional.Optional[uint32] {
	if len(b) != 4 {
		return optional.None[uint32]()
	}
	return optional.Some(binary.BigEndian.Uint32(b))
}

// HeaderEqual reports whether a and b are the same slice header: same
// backing array, offset, length, and capacity.
func HeaderEqual[T any](a, b []T) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[:1][0] == &b[:1][0]
}

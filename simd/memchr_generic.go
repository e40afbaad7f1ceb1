package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes returns a mask with the high bit set in every byte of v that is
// zero. Only the lowest set bit is exact, which is all callers use.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// memchrGeneric searches 8 bytes at a time: XOR with the broadcast needle
// turns matching bytes into zero bytes, and zeroBytes finds the first one.
func memchrGeneric(haystack []byte, needle byte) int {
	n := len(haystack)
	mask := uint64(needle) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memchr2Generic is memchrGeneric for two needles tested in the same pass.
func memchr2Generic(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}

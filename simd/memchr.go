// Package simd provides fast byte scanners used to skip impossible start
// offsets during regex search.
//
// Single-byte search hands large inputs to the runtime's vectorized
// bytes.IndexByte when the CPU has wide vector units (AVX2 on amd64, ASIMD on
// arm64). Everything else, and short inputs everywhere, runs on SWAR loops that
// test 8 bytes per step in a uint64.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// vectorThreshold is the input length below which the SWAR loop beats the
// setup cost of the vectorized path.
const vectorThreshold = 32

// hasVector is true when bytes.IndexByte runs on wide vector registers.
var hasVector = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
func Memchr(haystack []byte, needle byte) int {
	if hasVector && len(haystack) >= vectorThreshold {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2Generic(haystack, needle1, needle2)
}

// MemchrInTable returns the index of the first byte b in haystack with
// table[b] set, or -1 if there is none.
func MemchrInTable(haystack []byte, table *[256]bool) int {
	i := 0
	for ; i+4 <= len(haystack); i += 4 {
		switch {
		case table[haystack[i]]:
			return i
		case table[haystack[i+1]]:
			return i + 1
		case table[haystack[i+2]]:
			return i + 2
		case table[haystack[i+3]]:
			return i + 3
		}
	}
	for ; i < len(haystack); i++ {
		if table[haystack[i]] {
			return i
		}
	}
	return -1
}

package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0.
//
// Candidates are found by scanning for the needle's last byte with Memchr and
// verified with a full comparison.
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	last := len(needle) - 1
	rare := needle[last]
	for from := last; from < len(haystack); {
		i := Memchr(haystack[from:], rare)
		if i < 0 {
			return -1
		}
		end := from + i + 1
		start := end - len(needle)
		if bytes.Equal(haystack[start:end], needle) {
			return start
		}
		from = end
	}
	return -1
}

// MemmemFold is Memmem with ASCII letters compared case-insensitively.
// Bytes outside A-Z and a-z must match exactly.
func MemmemFold(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	}

	first := needle[0]
	other := first
	if isASCIILetter(first) {
		other ^= 0x20
	}
	limit := len(haystack) - len(needle)
	for from := 0; from <= limit; {
		i := Memchr2(haystack[from:limit+1], first, other)
		if i < 0 {
			return -1
		}
		start := from + i
		if EqualFold(haystack[start:start+len(needle)], needle) {
			return start
		}
		from = start + 1
	}
	return -1
}

// EqualFold reports whether a and b are equal under ASCII case folding.
// Unlike bytes.EqualFold it never folds non-ASCII bytes or treats the input
// as UTF-8.
func EqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x != y && !(isASCIILetter(x) && x^0x20 == y) {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b|0x20) >= 'a' && (b|0x20) <= 'z'
}

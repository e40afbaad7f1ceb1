// Package conv provides overflow-checked integer helpers for the regex engine.
//
// Unlike a plain conversion these helpers report overflow instead of wrapping
// silently, so callers can turn an impossible value into a typed error rather
// than corrupting a program counter or a byte offset.
package conv

import "math"

// IntToUint32 converts n to uint32.
// ok is false when n < 0 or n > math.MaxUint32.
func IntToUint32(n int) (v uint32, ok bool) {
	// Compare as uint so 32-bit platforms, where int cannot hold
	// math.MaxUint32, do not overflow the constant.
	if n < 0 || uint(n) > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// AddInt returns a+b for non-negative operands.
// ok is false when the sum would exceed math.MaxInt or an operand is negative.
func AddInt(a, b int) (sum int, ok bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// IncUint32 returns v+1.
// ok is false when v == math.MaxUint32.
func IncUint32(v uint32) (next uint32, ok bool) {
	if v == math.MaxUint32 {
		return 0, false
	}
	return v + 1, true
}

package simd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestMemchrBasic(t *testing.T) {
	tests := []struct {
		name     string
		haystack []byte
		needle   byte
		want     int
	}{
		{"empty_haystack", []byte{}, 'a', -1},
		{"single_match", []byte{'a'}, 'a', 0},
		{"single_no_match", []byte{'a'}, 'b', -1},
		{"middle_position", []byte("hello"), 'l', 2},
		{"last_position", []byte("hello"), 'o', 4},
		{"null_byte_present", []byte{1, 0, 2, 3}, 0, 1},
		{"high_byte_0xff", []byte{1, 2, 255, 4}, 255, 2},
		{"longer_last_char", []byte("the quick brown fox jumps over the lazy dog"), 'g', 42},
		{"longer_not_found", []byte("the quick brown fox jumps over the lazy dog"), '!', -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memchr(tt.haystack, tt.needle); got != tt.want {
				t.Errorf("Memchr(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
			if got := memchrGeneric(tt.haystack, tt.needle); got != tt.want {
				t.Errorf("memchrGeneric(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

// TestMemchrEveryPosition places the needle at each offset of buffers that
// straddle the 8-byte and vector thresholds.
func TestMemchrEveryPosition(t *testing.T) {
	for _, size := range []int{1, 7, 8, 9, 15, 16, 31, 32, 33, 64, 100} {
		for pos := 0; pos < size; pos++ {
			buf := bytes.Repeat([]byte{'.'}, size)
			buf[pos] = 'x'
			if got := Memchr(buf, 'x'); got != pos {
				t.Fatalf("size %d: Memchr = %d, want %d", size, got, pos)
			}
			if got := memchrGeneric(buf, 'x'); got != pos {
				t.Fatalf("size %d: memchrGeneric = %d, want %d", size, got, pos)
			}
			if got := Memchr2(buf, 'y', 'x'); got != pos {
				t.Fatalf("size %d: Memchr2 = %d, want %d", size, got, pos)
			}
		}
	}
}

// TestMemchrBorrow guards against zero-byte detection reporting the byte
// after a 0x01 that follows a match candidate.
func TestMemchrBorrow(t *testing.T) {
	buf := []byte{0x01, 0x01, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x00}
	if got := memchrGeneric(buf, 0x00); got != 2 {
		t.Errorf("memchrGeneric = %d, want 2", got)
	}
	buf = []byte{'b', 'a', 'b', 'b', 'b', 'b', 'b', 'b'}
	if got := memchrGeneric(buf, 'a'); got != 1 {
		t.Errorf("memchrGeneric = %d, want 1", got)
	}
}

func TestMemchr2(t *testing.T) {
	tests := []struct {
		haystack string
		n1, n2   byte
		want     int
	}{
		{"", 'a', 'b', -1},
		{"xyzb", 'a', 'b', 3},
		{"xyzbxa", 'a', 'b', 3},
		{"xaybz", 'a', 'b', 1},
		{"zzzz", 'a', 'a', -1},
		{strings.Repeat("-", 40) + "B", 'b', 'B', 40},
	}
	for _, tt := range tests {
		if got := Memchr2([]byte(tt.haystack), tt.n1, tt.n2); got != tt.want {
			t.Errorf("Memchr2(%q, %q, %q) = %d, want %d", tt.haystack, tt.n1, tt.n2, got, tt.want)
		}
	}
}

func TestMemchrInTable(t *testing.T) {
	var digits [256]bool
	for b := '0'; b <= '9'; b++ {
		digits[b] = true
	}

	tests := []struct {
		haystack string
		want     int
	}{
		{"", -1},
		{"abc", -1},
		{"7", 0},
		{"ab3", 2},
		{"abcd5", 4},
		{"abcdefg9", 7},
		{"no digits here at all", -1},
	}
	for _, tt := range tests {
		if got := MemchrInTable([]byte(tt.haystack), &digits); got != tt.want {
			t.Errorf("MemchrInTable(%q) = %d, want %d", tt.haystack, got, tt.want)
		}
	}
}

func BenchmarkMemchr(b *testing.B) {
	for _, size := range []int{16, 64, 4096} {
		buf := bytes.Repeat([]byte{'a'}, size)
		buf[size-1] = 'z'
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				Memchr(buf, 'z')
			}
		})
	}
}

// Fuzz tests comparing btre against stdlib regexp.
//
// Run with:
//
//	go test -fuzz=FuzzMatchStdlib -fuzztime=30s
package btre

import (
	"regexp"
	"strings"
	"testing"
)

var seedPatterns = []string{
	`hello`, `\d+`, `\D`, `\w+`, `\W`, `\s+`, `\S`, `[a-z]+`, `[^0-9]`,
	`^hello`, `world$`, `^hello$`, `\bhello\b`, `\Bx`, `\Aa`, `b\z`,
	`a*`, `a+`, `a?`, `a{2}`, `a{2,}`, `a{2,5}`,
	`foo|bar|baz`, `(a)(b)`, `(a|b)*c`, `(a|ab)(c|bcd)(d*)`,
	`\d{3}-\d{4}`, `[a-z]+@[a-z]+\.[a-z]+`, `.*\.txt$`,
	``, `.`, `.*`, `(.*)`, `^$`, `[]a]`, `[a-]`, `\\.`, `\+`,
	`(a*)*b`, `((a){0,2})*`, `(|a)+`,
}

var seedInputs = []string{
	"", "a", "hello", "hello world", "abc123def", "555-1234",
	"user@example.com", "file.txt", "hello\nworld", "\n\n", "aaab",
	"abcd", "  spaces  ", "x]-",
}

// comparableWithStdlib reports whether pattern means the same thing to both
// engines: ASCII only, no backreferences, no POSIX classes.
func comparableWithStdlib(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] >= 0x80 {
			return false
		}
		if pattern[i] == '\\' && i+1 < len(pattern) && pattern[i+1] >= '0' && pattern[i+1] <= '9' {
			return false
		}
	}
	return !strings.Contains(pattern, "[:")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FuzzMatchStdlib checks that the match verdict and the leftmost match start
// agree with regexp compiled in (?ms) mode, where '.' matches newline and
// ^ $ are line anchors.
//
// Capture contents are not compared: a loop iteration that matches empty is
// discarded here together with its captures, while regexp keeps it.
func FuzzMatchStdlib(f *testing.F) {
	for _, p := range seedPatterns {
		for _, in := range seedInputs {
			f.Add(p, in)
		}
	}

	f.Fuzz(func(t *testing.T, pattern, input string) {
		if len(pattern) > 64 || len(input) > 256 || !isASCII(input) || !comparableWithStdlib(pattern) {
			return
		}
		re, err := Compile(pattern)
		if err != nil {
			return
		}
		std, err := regexp.Compile("(?ms)" + pattern)
		if err != nil {
			return
		}

		got, err := re.MatchString(input)
		if err != nil {
			t.Fatalf("MatchString(%q) on %q: %v", input, pattern, err)
		}
		if want := std.MatchString(input); got != want {
			t.Fatalf("pattern %q input %q: got %v, regexp %v", pattern, input, got, want)
		}
		if !got {
			return
		}

		slots, err := re.FindSubmatchIndex([]byte(input))
		if err != nil {
			t.Fatal(err)
		}
		if want := std.FindStringIndex(input); slots == nil || slots[0] != want[0] {
			t.Fatalf("pattern %q input %q: match starts at %v, regexp %v", pattern, input, slots, want)
		}
	})
}

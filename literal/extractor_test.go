package literal

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/coregx/btre/syntax"
)

func extract(t *testing.T, pattern string) []*Seq {
	t.Helper()
	re, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return New(DefaultConfig()).Extract(re)
}

func render(seqs []*Seq) string {
	parts := make([]string, 0, len(seqs))
	for _, s := range seqs {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " ")
}

func TestExtract(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"hello", `["hello"]`},
		{`foo\d+bar`, `["foo"] ["bar"]`},
		{"(foo|bar)x", `["foo", "bar"] ["x"]`},
		{"(ab)+c", `["ab"] ["c"]`},
		{"a*b", `["b"]`},
		{"(foo|.)", ""},
		{"a?", ""},
		{".*", ""},
		{"", ""},
		{`\bword\b`, `["word"]`},
		{"(ab){2}x", `["ababx"]`},
		{"x{0}yz", `["yz"]`},
		{"(ab)cd", `["abcd"]`},
		{"(a|b)", `["a", "b"]`},
		{`(\d+foo|bar\w)`, `["foo", "bar"]`},
		{"(abc|abcd)", `["abc"]`},
		{`(a)\1`, `["a"]`},
		{"ab|ab", `["ab"]`},
		{"é", `["é"]`},
		{"a.b.c", `["a"] ["b"] ["c"]`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := render(extract(t, tt.pattern)); got != tt.want {
				t.Errorf("Extract(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractLimits(t *testing.T) {
	re, err := syntax.Parse(strings.Repeat("x", 100))
	if err != nil {
		t.Fatal(err)
	}
	seqs := New(ExtractorConfig{MaxLiteralLen: 8}).Extract(re)
	if len(seqs) != 1 || seqs[0].Get(0).Len() != 8 {
		t.Fatalf("Extract = %s, want one literal truncated to 8 bytes", render(seqs))
	}

	re, err = syntax.Parse("(a|b|c)")
	if err != nil {
		t.Fatal(err)
	}
	if seqs := New(ExtractorConfig{MaxLiterals: 2}).Extract(re); len(seqs) != 0 {
		t.Errorf("alternation over the limit: got %s", render(seqs))
	}

	re, err = syntax.Parse("a.bb.ccc.dddd.eeeee")
	if err != nil {
		t.Fatal(err)
	}
	seqs = New(ExtractorConfig{MaxSeqs: 2}).Extract(re)
	if got, want := render(seqs), `["eeeee"] ["dddd"]`; got != want {
		t.Errorf("MaxSeqs: got %s, want %s", got, want)
	}
}

// TestExtractSound checks that every extracted Seq is satisfied by every
// input the pattern matches.
func TestExtractSound(t *testing.T) {
	patterns := []string{
		"foo|bar", "(ab)+c", `x\d{2}y`, "(a|bc)d", "a.b", "(foo|bar)baz?",
	}
	inputs := []string{
		"foo", "bar", "ababc", "x12y", "ad", "bcd", "a-b", "barba", "foobaz",
		"zzz", "", "abc",
	}
	for _, pattern := range patterns {
		seqs := extract(t, pattern)
		std := regexp.MustCompile(pattern)
		for _, input := range inputs {
			if !std.MatchString(input) {
				continue
			}
			for _, seq := range seqs {
				found := false
				for _, lit := range seq.Literals() {
					if bytes.Contains([]byte(input), lit) {
						found = true
					}
				}
				if !found {
					t.Errorf("%q matches %q but misses %s", pattern, input, seq)
				}
			}
		}
	}
}

package prefilter

import (
	"testing"

	"github.com/coregx/btre/literal"
	"github.com/coregx/btre/syntax"
)

func buildFor(t *testing.T, pattern string, fold bool) []Prefilter {
	t.Helper()
	re, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return Build(literal.New(literal.DefaultConfig()).Extract(re), fold)
}

func TestBuildKinds(t *testing.T) {
	tests := []struct {
		pattern string
		fold    bool
		want    []string
	}{
		{"hello", false, []string{"memmem"}},
		{"foo|bar", false, []string{"aho-corasick"}},
		{`foo\d+(bar|baz)`, false, []string{"memmem", "aho-corasick"}},
		{"a*", false, nil},
		{"hello", true, nil},
		{"123-456", true, []string{"memmem"}},
		{`(12|34)x`, true, []string{"aho-corasick"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pfs := buildFor(t, tt.pattern, tt.fold)
			if len(pfs) != len(tt.want) {
				t.Fatalf("got %d prefilters, want %d", len(pfs), len(tt.want))
			}
			for i, pf := range pfs {
				if pf.Name() != tt.want[i] {
					t.Errorf("prefilter %d = %s, want %s", i, pf.Name(), tt.want[i])
				}
			}
		})
	}
}

func TestMayMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		want     bool
	}{
		{"hello", "say hello", true},
		{"hello", "say hell", false},
		{"foo|bar", "xxbarxx", true},
		{"foo|bar", "xxbaxx", false},
		{`foo\d+(bar|baz)`, "foo12 qux", false},
		{`foo\d+(bar|baz)`, "foo12baz", true},
		{`foo\d+(bar|baz)`, "baz then foo", true},
		{"a*", "", true},
		{"x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.haystack, func(t *testing.T) {
			pfs := buildFor(t, tt.pattern, false)
			if got := MayMatch(pfs, []byte(tt.haystack)); got != tt.want {
				t.Errorf("MayMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildSkipsEmpty(t *testing.T) {
	seqs := []*literal.Seq{literal.NewSeq(), nil}
	if pfs := Build(seqs, false); len(pfs) != 0 {
		t.Errorf("got %d prefilters for empty seqs", len(pfs))
	}
}

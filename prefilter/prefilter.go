// Package prefilter rejects haystacks that cannot match a pattern before the
// backtracking VM runs.
//
// Prefilters are built from the required literals found by package literal.
// Each prefilter checks one literal.Seq: if the haystack contains none of the
// Seq's literals, no match is possible. A haystack that passes every
// prefilter still has to be verified by the VM.
//
//	re, _ := syntax.Parse(`foo\d+(bar|baz)`)
//	seqs := literal.New(literal.DefaultConfig()).Extract(re)
//	pfs := prefilter.Build(seqs, false)
//	prefilter.MayMatch(pfs, []byte("foo12 qux")) // false: no "bar" or "baz"
package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/btre/literal"
	"github.com/coregx/btre/simd"
)

// Prefilter reports whether a haystack may contain a match.
type Prefilter interface {
	// IsMatch returns false only if the haystack certainly has no match.
	IsMatch(haystack []byte) bool

	// Name identifies the prefilter kind, for debugging.
	Name() string
}

// Build creates one prefilter per Seq.
//
// With foldCase set, matching compares ASCII letters case-insensitively
// while the literals keep the pattern's case, so a Seq containing an ASCII
// letter cannot be checked byte-for-byte and is dropped.
func Build(seqs []*literal.Seq, foldCase bool) []Prefilter {
	var out []Prefilter
	for _, seq := range seqs {
		if seq.IsEmpty() || (foldCase && seq.HasASCIILetter()) {
			continue
		}
		if pf := build(seq); pf != nil {
			out = append(out, pf)
		}
	}
	return out
}

func build(seq *literal.Seq) Prefilter {
	if seq.Len() == 1 {
		return newMemmemPrefilter(seq.Get(0).Bytes)
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range seq.Literals() {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		// Skipping a prefilter never changes results.
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, count: seq.Len()}
}

// MayMatch reports whether haystack passes every prefilter.
func MayMatch(pfs []Prefilter, haystack []byte) bool {
	for _, pf := range pfs {
		if !pf.IsMatch(haystack) {
			return false
		}
	}
	return true
}

// memmemPrefilter looks for a single literal.
type memmemPrefilter struct {
	needle []byte
}

func newMemmemPrefilter(needle []byte) *memmemPrefilter {
	return &memmemPrefilter{needle: append([]byte(nil), needle...)}
}

func (p *memmemPrefilter) IsMatch(haystack []byte) bool {
	return simd.Memmem(haystack, p.needle) >= 0
}

func (p *memmemPrefilter) Name() string {
	return "memmem"
}

// ahoCorasickPrefilter looks for any of several literals in one pass.
type ahoCorasickPrefilter struct {
	auto  *ahocorasick.Automaton
	count int
}

func (p *ahoCorasickPrefilter) IsMatch(haystack []byte) bool {
	return p.auto.IsMatch(haystack)
}

func (p *ahoCorasickPrefilter) Name() string {
	return "aho-corasick"
}

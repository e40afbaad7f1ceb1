// Package literal extracts required literals from a parsed pattern.
//
// A required literal is a byte string that occurs in every input the pattern
// matches. Inputs that lack one can be rejected before the backtracking VM
// runs. Extraction returns a conjunction of disjunctions: each Seq is a set of
// alternatives of which at least one must occur, and every Seq must hold.
//
// For example, /foo\d+(bar|baz)/ yields two Seqs, ["foo"] and ["bar", "baz"].
package literal

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
)

// Literal is a byte string that may be required to occur in a match.
type Literal struct {
	Bytes []byte
}

// NewLiteral creates a Literal from b. The bytes are not copied.
func NewLiteral(b []byte) Literal {
	return Literal{Bytes: b}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// HasASCIILetter reports whether the literal contains an ASCII letter, which
// makes it case-sensitive under ASCII case folding.
func (l Literal) HasASCIILetter() bool {
	for _, b := range l.Bytes {
		if (b|0x20) >= 'a' && (b|0x20) <= 'z' {
			return true
		}
	}
	return false
}

// String returns the literal quoted, for debugging.
func (l Literal) String() string {
	return strconv.Quote(string(l.Bytes))
}

// Seq is a set of alternative literals: a matching input contains at least one.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: slices.Clone(lits)}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Literals returns the literals' bytes.
func (s *Seq) Literals() [][]byte {
	out := make([][]byte, 0, s.Len())
	for _, lit := range s.literals {
		out = append(out, lit.Bytes)
	}
	return out
}

// MinLen returns the length of the shortest literal, or 0 for an empty sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	m := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		m = min(m, lit.Len())
	}
	return m
}

// HasASCIILetter reports whether any literal contains an ASCII letter.
func (s *Seq) HasASCIILetter() bool {
	return slices.ContainsFunc(s.literals, Literal.HasASCIILetter)
}

// Minimize removes duplicates and every literal that contains another one.
// If "ab" occurs, any input containing "xaby" already satisfies the sequence,
// so "xaby" adds nothing.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return a.Len() - b.Len()
	})

	kept := s.literals[:0]
	for _, lit := range s.literals {
		redundant := slices.ContainsFunc(kept, func(k Literal) bool {
			return bytes.Contains(lit.Bytes, k.Bytes)
		})
		if !redundant {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// String returns the sequence as a bracketed list of quoted literals.
func (s *Seq) String() string {
	parts := make([]string, 0, s.Len())
	for _, lit := range s.literals {
		parts = append(parts, lit.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

package literal

import (
	"bytes"
	"slices"

	"github.com/coregx/btre/syntax"
)

// ExtractorConfig configures literal extraction limits.
type ExtractorConfig struct {
	// MaxLiterals limits the size of a Seq built from an alternation.
	// Alternations with more branches contribute nothing. Default: 64.
	MaxLiterals int

	// MaxLiteralLen truncates longer literals. A prefix of a required
	// literal is itself required, so truncation keeps results sound.
	// Default: 64.
	MaxLiteralLen int

	// MaxSeqs limits how many Seqs are returned, strongest first. Default: 4.
	MaxSeqs int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxSeqs:       4,
	}
}

// Extractor extracts required literals from syntax trees.
//
//	"foo\d+bar"      → ["foo"], ["bar"]
//	"(foo|bar)x"     → ["foo", "bar"], ["x"]
//	"(ab)+c"         → ["ab"], ["c"]
//	"a*b"            → ["b"]
//	"(foo|.)"        → nothing (one branch has no literal)
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxSeqs <= 0 {
		config.MaxSeqs = def.MaxSeqs
	}
	return &Extractor{config: config}
}

// Extract returns the required-literal conjunction of re. Every returned Seq
// is non-empty and every input matched by re contains at least one literal
// of each Seq. Seqs with longer shortest literals come first.
func (e *Extractor) Extract(re *syntax.Regexp) []*Seq {
	seqs := e.required(re)

	out := make([]*Seq, 0, len(seqs))
	for _, seq := range seqs {
		seq.Minimize()
		if seq.IsEmpty() || seq.MinLen() == 0 {
			continue
		}
		if slices.ContainsFunc(out, func(o *Seq) bool { return sameSeq(o, seq) }) {
			continue
		}
		out = append(out, seq)
	}

	slices.SortStableFunc(out, func(a, b *Seq) int {
		return b.MinLen() - a.MinLen()
	})
	if len(out) > e.config.MaxSeqs {
		out = out[:e.config.MaxSeqs]
	}
	return out
}

// required returns the Seqs that must all hold for re to match.
func (e *Extractor) required(re *syntax.Regexp) []*Seq {
	switch re.Op {
	case syntax.OpLiteral:
		return []*Seq{e.single([]byte{re.Byte})}
	case syntax.OpGroup:
		return e.required(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min == 0 {
			return nil
		}
		if lit, ok := exactString(re, e.config.MaxLiteralLen); ok && len(lit) > 0 {
			return []*Seq{e.single(lit)}
		}
		return e.required(re.Sub[0])
	case syntax.OpConcat:
		return e.requiredConcat(re.Sub)
	case syntax.OpAlternate:
		if seq := e.requiredAlternate(re.Sub); seq != nil {
			return []*Seq{seq}
		}
	}
	return nil
}

// requiredConcat joins adjacent exact strings into runs; each run is a must
// literal. Other children contribute their own requirements.
func (e *Extractor) requiredConcat(subs []*syntax.Regexp) []*Seq {
	var seqs []*Seq
	var run []byte
	flush := func() {
		if len(run) > 0 {
			seqs = append(seqs, e.single(run))
			run = nil
		}
	}

	for _, sub := range subs {
		if lit, ok := exactString(sub, e.config.MaxLiteralLen); ok {
			run = append(run, lit...)
			continue
		}
		flush()
		seqs = append(seqs, e.required(sub)...)
	}
	flush()
	return seqs
}

// requiredAlternate returns one Seq holding the longest required literal of
// each branch, or nil if some branch requires none.
func (e *Extractor) requiredAlternate(branches []*syntax.Regexp) *Seq {
	if len(branches) > e.config.MaxLiterals {
		return nil
	}
	lits := make([]Literal, 0, len(branches))
	for _, branch := range branches {
		var best []byte
		for _, seq := range e.required(branch) {
			if seq.Len() == 1 && seq.Get(0).Len() > len(best) {
				best = seq.Get(0).Bytes
			}
		}
		if len(best) == 0 {
			return nil
		}
		lits = append(lits, NewLiteral(best))
	}
	return NewSeq(lits...)
}

func (e *Extractor) single(b []byte) *Seq {
	if len(b) > e.config.MaxLiteralLen {
		b = b[:e.config.MaxLiteralLen]
	}
	return NewSeq(NewLiteral(bytes.Clone(b)))
}

// exactString returns the only string re can match, if there is one.
// Zero-width assertions count as the empty string: they may fail, but when
// they pass they consume nothing. Results longer than limit are rejected.
func exactString(re *syntax.Regexp, limit int) ([]byte, bool) {
	switch re.Op {
	case syntax.OpEmpty, syntax.OpAssert:
		return nil, true
	case syntax.OpLiteral:
		return []byte{re.Byte}, true
	case syntax.OpGroup:
		return exactString(re.Sub[0], limit)
	case syntax.OpConcat:
		var out []byte
		for _, sub := range re.Sub {
			lit, ok := exactString(sub, limit)
			if !ok || len(out)+len(lit) > limit {
				return nil, false
			}
			out = append(out, lit...)
		}
		return out, true
	case syntax.OpRepeat:
		if re.Min != re.Max {
			return nil, false
		}
		lit, ok := exactString(re.Sub[0], limit)
		if !ok || (len(lit) > 0 && re.Min > limit/len(lit)) {
			return nil, false
		}
		return bytes.Repeat(lit, re.Min), true
	}
	return nil, false
}

func sameSeq(a, b *Seq) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.literals {
		if !bytes.Equal(a.literals[i].Bytes, b.literals[i].Bytes) {
			return false
		}
	}
	return true
}

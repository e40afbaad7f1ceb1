package nfa

import (
	"github.com/coregx/btre/internal/sparse"
)

// maxFirstBytes is the largest class that still yields a useful first-byte
// set. Anything broader rejects too few offsets to pay for the lookup.
const maxFirstBytes = 128

// FirstByteSet is the set of bytes that can begin a match.
type FirstByteSet struct {
	raw    [256]bool
	folded [256]bool
	count  int
}

// Contains reports whether b can be the first byte of a match. With fold
// set, ASCII letters are compared case-insensitively.
func (s *FirstByteSet) Contains(b byte, fold bool) bool {
	if fold {
		return s.folded[b]
	}
	return s.raw[b]
}

// Table returns the membership table to scan with, raw or folded.
func (s *FirstByteSet) Table(fold bool) *[256]bool {
	if fold {
		return &s.folded
	}
	return &s.raw
}

// Count returns the number of distinct bytes in the raw set.
func (s *FirstByteSet) Count() int {
	return s.count
}

func (s *FirstByteSet) addByte(b byte) {
	if !s.raw[b] {
		s.raw[b] = true
		s.count++
	}
	s.folded[b] = true
	if isASCIILetter(b) {
		s.folded[b^0x20] = true
	}
}

func (s *FirstByteSet) addClass(c *ByteClass) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if c.Matches(b, false) {
			s.addByte(b)
		} else if c.Matches(b, true) {
			s.folded[b] = true
		}
	}
}

// SearchPlan holds conservative facts about where a match can start.
// Each field falls back to its least restrictive value when it cannot be
// proven, so using a plan never changes a search result.
type SearchPlan struct {
	// CanMatchEmpty is set when the program may accept without consuming input.
	CanMatchEmpty bool

	// FirstBytes is the set of bytes a match can start with, or nil if unknown.
	FirstBytes *FirstByteSet

	// LeadingLiteral is a byte string every match starts with, or nil.
	LeadingLiteral []byte
}

// CanSkip reports whether the plan allows any start offset to be skipped.
func (p *SearchPlan) CanSkip() bool {
	return !p.CanMatchEmpty && (p.FirstBytes != nil || len(p.LeadingLiteral) > 0)
}

// BuildPlan analyzes prog. It never fails.
//
// The analysis walks every path from pc 0 through zero-width instructions.
// Each consuming instruction reached is a first consumer and contributes to
// FirstBytes; reaching InstMatch sets CanMatchEmpty. A backreference may
// consume nothing when its group captured the empty string, so it makes
// FirstBytes unknown and the walk continues past it.
func BuildPlan(prog *Prog) *SearchPlan {
	plan := &SearchPlan{}
	n := prog.Len()
	if n == 0 {
		return plan
	}

	first := &FirstByteSet{}
	known := true
	seen := sparse.NewSet(n)
	stack := []PC{0}

	for len(stack) > 0 {
		pc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if int(pc) >= n || !seen.Insert(uint32(pc)) {
			continue
		}

		inst := &prog.Insts[pc]
		switch inst.Op {
		case InstMatch:
			plan.CanMatchEmpty = true
		case InstByte:
			first.addByte(inst.Byte)
		case InstAnyByte:
			known = false
		case InstClass:
			if inst.Class.Count() > maxFirstBytes {
				known = false
			} else {
				first.addClass(inst.Class)
			}
		case InstBackref:
			known = false
			stack = append(stack, pc+1)
		case InstSplit:
			// Y first so X is explored first; order does not affect the result.
			stack = append(stack, inst.Y, inst.X)
		case InstJump:
			stack = append(stack, inst.X)
		case InstAssert, InstCaptureStart, InstCaptureEnd:
			stack = append(stack, pc+1)
		}
	}

	if known {
		plan.FirstBytes = first
	}
	plan.LeadingLiteral = leadingLiteral(prog)
	return plan
}

// leadingLiteral returns the bytes of the InstByte run that every path from
// pc 0 starts with, following only unconditional zero-width instructions.
func leadingLiteral(prog *Prog) []byte {
	var lit []byte
	n := prog.Len()
	pc := PC(0)
	for steps := 0; steps < n && int(pc) < n; steps++ {
		inst := &prog.Insts[pc]
		switch inst.Op {
		case InstByte:
			lit = append(lit, inst.Byte)
			pc++
		case InstCaptureStart, InstCaptureEnd, InstAssert:
			pc++
		case InstJump:
			pc = inst.X
		default:
			return lit
		}
	}
	return lit
}

package nfa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/btre/syntax"
)

// PC addresses an instruction in a Prog. The entry point is always 0.
type PC uint32

// InstOp is the opcode of an instruction.
type InstOp uint8

const (
	// InstByte consumes one byte equal to Inst.Byte.
	InstByte InstOp = iota
	// InstAnyByte consumes any one byte.
	InstAnyByte
	// InstClass consumes one byte accepted by Inst.Class.
	InstClass
	// InstAssert checks Inst.Assert at the current position without consuming.
	InstAssert
	// InstCaptureStart records the current position as the start of group Inst.Arg.
	InstCaptureStart
	// InstCaptureEnd records the current position as the end of group Inst.Arg.
	InstCaptureEnd
	// InstBackref consumes the text last captured by group Inst.Arg.
	InstBackref
	// InstSplit continues at X, falling back to Y when X fails.
	InstSplit
	// InstJump continues at X.
	InstJump
	// InstMatch accepts.
	InstMatch
)

// String returns a human-readable representation of InstOp
func (op InstOp) String() string {
	switch op {
	case InstByte:
		return "byte"
	case InstAnyByte:
		return "any"
	case InstClass:
		return "class"
	case InstAssert:
		return "assert"
	case InstCaptureStart:
		return "save-start"
	case InstCaptureEnd:
		return "save-end"
	case InstBackref:
		return "backref"
	case InstSplit:
		return "split"
	case InstJump:
		return "jmp"
	case InstMatch:
		return "match"
	default:
		return fmt.Sprintf("InstOp(%d)", op)
	}
}

// ByteClass is a precomputed class membership table.
type ByteClass struct {
	In      [256]bool
	Negated bool
}

// newByteClass builds the table for a parsed class.
func newByteClass(c *syntax.Class) *ByteClass {
	bc := &ByteClass{Negated: c.Negated}
	for _, r := range c.Ranges {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			bc.In[b] = true
		}
	}
	return bc
}

// Matches reports whether the class accepts b. With fold set, an ASCII
// letter is also accepted when its other case is in the table.
func (c *ByteClass) Matches(b byte, fold bool) bool {
	in := c.In[b] || (fold && isASCIILetter(b) && c.In[b^0x20])
	return in != c.Negated
}

// Count returns how many of the 256 byte values the class accepts without folding.
func (c *ByteClass) Count() int {
	n := 0
	for _, in := range c.In {
		if in != c.Negated {
			n++
		}
	}
	return n
}

// Inst is one VM instruction. Which fields are used depends on Op.
type Inst struct {
	Op     InstOp
	Byte   byte             // InstByte
	Class  *ByteClass       // InstClass
	Assert syntax.Assertion // InstAssert
	Arg    int              // group index for captures and backreferences
	X, Y   PC               // InstSplit: X preferred, Y alternate; InstJump: X
}

// String returns a human-readable representation of the instruction
func (i *Inst) String() string {
	switch i.Op {
	case InstByte:
		return "byte " + strconv.QuoteRune(rune(i.Byte))
	case InstClass:
		return "class " + i.Class.describe()
	case InstAssert:
		return "assert " + i.Assert.String()
	case InstCaptureStart, InstCaptureEnd, InstBackref:
		return i.Op.String() + " " + strconv.Itoa(i.Arg)
	case InstSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	case InstJump:
		return fmt.Sprintf("jmp %d", i.X)
	default:
		return i.Op.String()
	}
}

// describe renders the class as bracketed byte ranges, e.g. [^0-9a].
func (c *ByteClass) describe() string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negated {
		b.WriteByte('^')
	}
	for lo := 0; lo < 256; {
		if !c.In[lo] {
			lo++
			continue
		}
		hi := lo
		for hi+1 < 256 && c.In[hi+1] {
			hi++
		}
		writeClassByte(&b, byte(lo))
		if hi > lo {
			b.WriteByte('-')
			writeClassByte(&b, byte(hi))
		}
		lo = hi + 1
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassByte(b *strings.Builder, c byte) {
	if c >= 0x20 && c < 0x7f {
		b.WriteByte(c)
		return
	}
	fmt.Fprintf(b, `\x%02x`, c)
}

// Prog is a compiled program. It is immutable once built.
type Prog struct {
	Insts []Inst

	// NumCap is the number of capturing groups.
	NumCap int

	// Backrefs lists the distinct group indices referenced by backreferences,
	// in increasing order. Empty when the program has no backreferences.
	Backrefs []int
}

// Len returns the number of instructions.
func (p *Prog) Len() int {
	return len(p.Insts)
}

// NumSlots returns the length of a capture table for this program:
// two slots for the overall match plus two per group.
func (p *Prog) NumSlots() int {
	return 2 * (p.NumCap + 1)
}

// HasBackrefs reports whether the program contains a backreference.
func (p *Prog) HasBackrefs() bool {
	return len(p.Backrefs) > 0
}

// String returns a disassembly with one numbered instruction per line.
func (p *Prog) String() string {
	var b strings.Builder
	for pc := range p.Insts {
		fmt.Fprintf(&b, "%3d: %s\n", pc, p.Insts[pc].String())
	}
	return b.String()
}

func isASCIILetter(b byte) bool {
	return (b|0x20) >= 'a' && (b|0x20) <= 'z'
}

// foldEqual reports whether a and b are equal, ignoring ASCII case when fold is set.
func foldEqual(a, b byte, fold bool) bool {
	if a == b {
		return true
	}
	return fold && isASCIILetter(a) && a^0x20 == b
}

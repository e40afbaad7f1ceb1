// Package syntax parses restricted regular expressions into a syntax tree.
//
// The accepted language is a small Perl-like subset: literals, '.', bracket
// classes, the ASCII shorthands \d \w \s (and negations), line and text
// anchors, word boundaries, capturing groups, alternation, greedy
// quantifiers (* + ? {m} {m,} {m,n}) and numeric backreferences (\1, \2, ...).
//
// Patterns are scanned as bytes. Everything the parser produces operates on
// bytes as well: a non-ASCII character outside a class becomes a sequence of
// byte literals, and classes are sets of byte ranges.
package syntax

import (
	"strconv"
	"strings"
)

// Op identifies the kind of a syntax tree node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota + 1
	// OpLiteral matches the single byte Byte.
	OpLiteral
	// OpAnyByte matches any single byte.
	OpAnyByte
	// OpClass matches one byte in (or, if negated, not in) Class.
	OpClass
	// OpAssert is a zero-width assertion described by Assert.
	OpAssert
	// OpGroup wraps Sub[0]; Cap > 0 makes it a capturing group.
	OpGroup
	// OpBackref matches the text most recently captured by group Cap.
	OpBackref
	// OpConcat matches Sub in sequence.
	OpConcat
	// OpAlternate matches the first successful branch of Sub, left to right.
	OpAlternate
	// OpRepeat matches Sub[0] between Min and Max times (Max == -1: unbounded).
	OpRepeat
)

var opNames = [...]string{
	OpEmpty:     "Empty",
	OpLiteral:   "Literal",
	OpAnyByte:   "AnyByte",
	OpClass:     "Class",
	OpAssert:    "Assert",
	OpGroup:     "Group",
	OpBackref:   "Backref",
	OpConcat:    "Concat",
	OpAlternate: "Alternate",
	OpRepeat:    "Repeat",
}

// String returns the name of the op.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Assertion identifies a zero-width assertion.
type Assertion uint8

const (
	// BeginLine matches at the start of input or after '\n' (^).
	BeginLine Assertion = iota + 1
	// EndLine matches at the end of input or before '\n' ($).
	EndLine
	// BeginText matches only at the start of input (\A).
	BeginText
	// EndText matches only at the end of input (\z).
	EndText
	// WordBoundary matches between a word and a non-word byte (\b).
	WordBoundary
	// NoWordBoundary matches where WordBoundary does not (\B).
	NoWordBoundary
)

// String returns the pattern syntax of the assertion.
func (a Assertion) String() string {
	switch a {
	case BeginLine:
		return "^"
	case EndLine:
		return "$"
	case BeginText:
		return `\A`
	case EndText:
		return `\z`
	case WordBoundary:
		return `\b`
	case NoWordBoundary:
		return `\B`
	}
	return "Assertion(" + strconv.Itoa(int(a)) + ")"
}

// ByteRange is an inclusive range of bytes.
type ByteRange struct {
	Lo, Hi byte
}

// Class is a bracket expression or shorthand class.
type Class struct {
	Ranges  []ByteRange
	Negated bool
}

// Contains reports whether b is a member of the class, negation applied.
func (c *Class) Contains(b byte) bool {
	in := false
	for _, r := range c.Ranges {
		if b >= r.Lo && b <= r.Hi {
			in = true
			break
		}
	}
	return in != c.Negated
}

// Regexp is a node of the syntax tree.
//
// Which fields are meaningful depends on Op:
//   - OpLiteral: Byte
//   - OpClass: Class
//   - OpAssert: Assert
//   - OpGroup: Sub[0], Cap (0 for a non-capturing group)
//   - OpBackref: Cap
//   - OpConcat, OpAlternate: Sub
//   - OpRepeat: Sub[0], Min, Max, Greedy
type Regexp struct {
	Op     Op
	Byte   byte
	Class  *Class
	Assert Assertion
	Cap    int
	Sub    []*Regexp
	Min    int
	Max    int
	Greedy bool
}

// NumCap returns the largest capture index used by a group in the tree,
// or 0 if there are no capturing groups.
func (re *Regexp) NumCap() int {
	m := 0
	if re.Op == OpGroup && re.Cap > m {
		m = re.Cap
	}
	for _, sub := range re.Sub {
		if n := sub.NumCap(); n > m {
			m = n
		}
	}
	return m
}

// Walk calls fn for re and every node below it in pre-order.
// Descent stops below a node for which fn returns false.
func (re *Regexp) Walk(fn func(*Regexp) bool) {
	if !fn(re) {
		return
	}
	for _, sub := range re.Sub {
		sub.Walk(fn)
	}
}

// Equal reports whether re and other describe the same tree.
func (re *Regexp) Equal(other *Regexp) bool {
	if re == nil || other == nil {
		return re == other
	}
	if re.Op != other.Op || len(re.Sub) != len(other.Sub) {
		return false
	}
	switch re.Op {
	case OpLiteral:
		if re.Byte != other.Byte {
			return false
		}
	case OpClass:
		if !classEqual(re.Class, other.Class) {
			return false
		}
	case OpAssert:
		if re.Assert != other.Assert {
			return false
		}
	case OpGroup, OpBackref:
		if re.Cap != other.Cap {
			return false
		}
	case OpRepeat:
		if re.Min != other.Min || re.Max != other.Max || re.Greedy != other.Greedy {
			return false
		}
	}
	for i := range re.Sub {
		if !re.Sub[i].Equal(other.Sub[i]) {
			return false
		}
	}
	return true
}

func classEqual(a, b *Class) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Negated != b.Negated || len(a.Ranges) != len(b.Ranges) {
		return false
	}
	for i := range a.Ranges {
		if a.Ranges[i] != b.Ranges[i] {
			return false
		}
	}
	return true
}

// String returns a pattern describing the same language as re.
// Groups introduced to disambiguate precedence are capturing on reparse.
func (re *Regexp) String() string {
	var b strings.Builder
	writeRegexp(&b, re)
	return b.String()
}

const metaBytes = `\.+*?()|[]{}^$`

func writeByte(b *strings.Builder, c byte, inClass bool) {
	switch {
	case c == '\n':
		b.WriteString(`\n`)
	case c == '\t':
		b.WriteString(`\t`)
	case c == '\r':
		b.WriteString(`\r`)
	case c == '\f':
		b.WriteString(`\f`)
	case c == '\v':
		b.WriteString(`\v`)
	case strings.IndexByte(metaBytes, c) >= 0 || (inClass && c == '-'):
		b.WriteByte('\\')
		b.WriteByte(c)
	default:
		b.WriteByte(c)
	}
}

func writeRegexp(b *strings.Builder, re *Regexp) {
	switch re.Op {
	case OpEmpty:
	case OpLiteral:
		writeByte(b, re.Byte, false)
	case OpAnyByte:
		b.WriteByte('.')
	case OpClass:
		b.WriteByte('[')
		if re.Class.Negated {
			b.WriteByte('^')
		}
		for _, r := range re.Class.Ranges {
			writeByte(b, r.Lo, true)
			if r.Hi != r.Lo {
				b.WriteByte('-')
				writeByte(b, r.Hi, true)
			}
		}
		b.WriteByte(']')
	case OpAssert:
		b.WriteString(re.Assert.String())
	case OpGroup:
		b.WriteByte('(')
		writeRegexp(b, re.Sub[0])
		b.WriteByte(')')
	case OpBackref:
		b.WriteByte('\\')
		b.WriteString(strconv.Itoa(re.Cap))
	case OpConcat:
		for i, sub := range re.Sub {
			// A digit right after a backreference would extend its index.
			if i > 0 && re.Sub[i-1].Op == OpBackref && sub.Op == OpLiteral && isDigit(sub.Byte) {
				b.WriteString("[" + string(sub.Byte) + "]")
				continue
			}
			if sub.Op == OpAlternate {
				b.WriteByte('(')
				writeRegexp(b, sub)
				b.WriteByte(')')
				continue
			}
			writeRegexp(b, sub)
		}
	case OpAlternate:
		for i, sub := range re.Sub {
			if i > 0 {
				b.WriteByte('|')
			}
			writeRegexp(b, sub)
		}
	case OpRepeat:
		sub := re.Sub[0]
		if sub.Op == OpConcat || sub.Op == OpAlternate || sub.Op == OpRepeat {
			b.WriteByte('(')
			writeRegexp(b, sub)
			b.WriteByte(')')
		} else {
			writeRegexp(b, sub)
		}
		writeQuantifier(b, re.Min, re.Max)
		if !re.Greedy {
			b.WriteByte('?')
		}
	}
}

func writeQuantifier(b *strings.Builder, lo, hi int) {
	switch {
	case lo == 0 && hi == -1:
		b.WriteByte('*')
	case lo == 1 && hi == -1:
		b.WriteByte('+')
	case lo == 0 && hi == 1:
		b.WriteByte('?')
	case hi == -1:
		b.WriteString("{" + strconv.Itoa(lo) + ",}")
	case lo == hi:
		b.WriteString("{" + strconv.Itoa(lo) + "}")
	default:
		b.WriteString("{" + strconv.Itoa(lo) + "," + strconv.Itoa(hi) + "}")
	}
}

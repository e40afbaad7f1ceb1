package syntax

import (
	"unicode/utf8"
)

const (
	// DefaultMaxDepth is the default limit on group nesting.
	DefaultMaxDepth = 1000

	// DefaultMaxRepeatCount is the default limit on a {m,n} count.
	// Counts this large still compile only if the expanded program fits the
	// compiler's instruction ceiling.
	DefaultMaxRepeatCount = 1_000_000
)

// Parser holds parsing limits. The zero value uses the defaults.
type Parser struct {
	// MaxDepth limits group nesting. Default: 1000.
	MaxDepth int

	// MaxRepeatCount limits the counts in {m}, {m,} and {m,n}. Default: 1,000,000.
	MaxRepeatCount int
}

// DefaultParser returns a Parser with default limits.
func DefaultParser() Parser {
	return Parser{
		MaxDepth:       DefaultMaxDepth,
		MaxRepeatCount: DefaultMaxRepeatCount,
	}
}

// Parse parses pattern with default limits.
func Parse(pattern string) (*Regexp, error) {
	return DefaultParser().Parse(pattern)
}

// Parse parses pattern into a syntax tree.
//
// Capture indices are assigned left to right as groups open, starting at 1.
// Backreference indices are not checked against the groups here.
// On failure the returned error is a *Error and no tree is returned.
func (p Parser) Parse(pattern string) (*Regexp, error) {
	ps := &parser{
		src:       pattern,
		maxDepth:  p.MaxDepth,
		maxRepeat: p.MaxRepeatCount,
	}
	if ps.maxDepth <= 0 {
		ps.maxDepth = DefaultMaxDepth
	}
	if ps.maxRepeat <= 0 {
		ps.maxRepeat = DefaultMaxRepeatCount
	}

	re, err := ps.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !ps.eof() {
		// parseAlternate only stops early at ')'.
		return nil, ps.errorHere(ErrUnmatchedParen)
	}
	return re, nil
}

// parser is the scanning state for one Parse call.
type parser struct {
	src  string
	pos  int // byte offset of the next unread byte
	char int // character offset of src[pos]

	ncap      int
	depth     int
	maxDepth  int
	maxRepeat int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// peekAt returns the byte n positions ahead and whether it exists.
func (p *parser) peekAt(n int) (byte, bool) {
	if p.pos+n >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos+n], true
}

// advance consumes one byte, keeping the character offset in step.
func (p *parser) advance() byte {
	c := p.src[p.pos]
	if !isContinuation(c) {
		p.char++
	}
	p.pos++
	return c
}

// mark is a saved position used to report errors after scanning past them.
type mark struct {
	pos, char int
}

func (p *parser) mark() mark {
	return mark{pos: p.pos, char: p.char}
}

func (p *parser) errorAt(code ErrorCode, m mark) *Error {
	e := &Error{Code: code, Pos: m.char, Expr: p.src}
	if m.pos < len(p.src) {
		r, _ := utf8.DecodeRuneInString(p.src[m.pos:])
		e.Char = r
	}
	return e
}

func (p *parser) errorHere(code ErrorCode) *Error {
	return p.errorAt(code, p.mark())
}

// parseAlternate parses branch ('|' branch)*.
func (p *parser) parseAlternate() (*Regexp, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != '|' {
		return first, nil
	}

	branches := []*Regexp{first}
	for !p.eof() && p.peek() == '|' {
		p.advance()
		branch, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return &Regexp{Op: OpAlternate, Sub: branches}, nil
}

// parseConcat parses a run of quantified atoms up to '|', ')' or end of input.
func (p *parser) parseConcat() (*Regexp, error) {
	var items []*Regexp
	for !p.eof() {
		c := p.peek()
		if c == '|' || c == ')' {
			break
		}
		if isQuantifier(c) {
			return nil, p.errorHere(ErrMissingRepeatArgument)
		}

		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		atom, err = p.parseQuantifier(atom)
		if err != nil {
			return nil, err
		}
		items = append(items, atom)
	}

	switch len(items) {
	case 0:
		return &Regexp{Op: OpEmpty}, nil
	case 1:
		return items[0], nil
	}
	return &Regexp{Op: OpConcat, Sub: items}, nil
}

// parseQuantifier wraps atom in at most one quantifier.
// A second quantifier has no atom of its own to bind to.
func (p *parser) parseQuantifier(atom *Regexp) (*Regexp, error) {
	if p.eof() || !isQuantifier(p.peek()) {
		return atom, nil
	}

	start := p.mark()
	lo, hi := 0, -1
	switch p.advance() {
	case '*':
	case '+':
		lo = 1
	case '?':
		hi = 1
	case '{':
		var err error
		lo, hi, err = p.parseRepeatBounds(start)
		if err != nil {
			return nil, err
		}
	}

	if !p.eof() {
		switch c := p.peek(); {
		case c == '?':
			return nil, p.errorHere(ErrNonGreedy)
		case isQuantifier(c):
			return nil, p.errorHere(ErrMissingRepeatArgument)
		}
	}
	return &Regexp{Op: OpRepeat, Sub: []*Regexp{atom}, Min: lo, Max: hi, Greedy: true}, nil
}

// parseRepeatBounds parses the rest of {m}, {m,} or {m,n} after '{'.
func (p *parser) parseRepeatBounds(open mark) (lo, hi int, err error) {
	lo, ok := p.parseCount()
	if !ok {
		return 0, 0, p.errorAt(ErrInvalidRepeatOp, open)
	}
	if p.eof() {
		return 0, 0, p.errorAt(ErrInvalidRepeatOp, open)
	}

	switch p.advance() {
	case '}':
		hi = lo
	case ',':
		if p.eof() {
			return 0, 0, p.errorAt(ErrInvalidRepeatOp, open)
		}
		if p.peek() == '}' {
			p.advance()
			hi = -1
			break
		}
		hi, ok = p.parseCount()
		if !ok || p.eof() || p.peek() != '}' {
			return 0, 0, p.errorAt(ErrInvalidRepeatOp, open)
		}
		p.advance()
	default:
		return 0, 0, p.errorAt(ErrInvalidRepeatOp, open)
	}

	if lo > p.maxRepeat || hi > p.maxRepeat || (hi != -1 && lo > hi) {
		return 0, 0, p.errorAt(ErrInvalidRepeatSize, open)
	}
	return lo, hi, nil
}

// parseCount parses a decimal count. Values past the repeat limit saturate
// just above it so the caller reports a size error instead of overflowing.
func (p *parser) parseCount() (int, bool) {
	n, digits := 0, 0
	for !p.eof() && isDigit(p.peek()) {
		d := int(p.advance() - '0')
		if n <= p.maxRepeat {
			n = n*10 + d
		}
		digits++
	}
	return n, digits > 0
}

// parseAtom parses a single atom: group, class, '.', anchor, escape or literal.
func (p *parser) parseAtom() (*Regexp, error) {
	start := p.mark()
	switch c := p.peek(); c {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.advance()
		return &Regexp{Op: OpAnyByte}, nil
	case '^':
		p.advance()
		return &Regexp{Op: OpAssert, Assert: BeginLine}, nil
	case '$':
		p.advance()
		return &Regexp{Op: OpAssert, Assert: EndLine}, nil
	case '\\':
		return p.parseEscape()
	case ']', '}':
		return nil, p.errorAt(ErrUnexpectedChar, start)
	default:
		return p.parseLiteral(), nil
	}
}

// parseLiteral consumes one character. A multi-byte UTF-8 character becomes
// a concatenation of its bytes so that a following quantifier applies to the
// whole character.
func (p *parser) parseLiteral() *Regexp {
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	if size <= 1 {
		return literal(p.advance())
	}
	subs := make([]*Regexp, 0, size)
	for i := 0; i < size; i++ {
		subs = append(subs, literal(p.advance()))
	}
	return &Regexp{Op: OpConcat, Sub: subs}
}

func (p *parser) parseGroup() (*Regexp, error) {
	open := p.mark()
	p.advance()

	p.depth++
	if p.depth > p.maxDepth {
		return nil, p.errorAt(ErrNestingDepth, open)
	}
	p.ncap++
	capIndex := p.ncap

	sub, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorAt(ErrMissingParen, open)
	}
	p.advance() // ')'
	p.depth--

	return &Regexp{Op: OpGroup, Cap: capIndex, Sub: []*Regexp{sub}}, nil
}

// parseEscape parses a backslash sequence outside a class.
func (p *parser) parseEscape() (*Regexp, error) {
	backslash := p.mark()
	p.advance()
	if p.eof() {
		return nil, p.errorAt(ErrTrailingBackslash, backslash)
	}

	at := p.mark()
	c := p.peek()
	switch {
	case c >= '1' && c <= '9':
		n, _ := p.parseCount()
		return &Regexp{Op: OpBackref, Cap: n}, nil
	case isEscapableLiteral(c):
		p.advance()
		return literal(c), nil
	}
	if b, ok := controlEscape(c); ok {
		p.advance()
		return literal(b), nil
	}
	if cls, ok := shorthandClass(c); ok {
		p.advance()
		return &Regexp{Op: OpClass, Class: cls}, nil
	}

	var a Assertion
	switch c {
	case 'b':
		a = WordBoundary
	case 'B':
		a = NoWordBoundary
	case 'A':
		a = BeginText
	case 'z':
		a = EndText
	default:
		return nil, p.errorAt(ErrInvalidEscape, at)
	}
	p.advance()
	return &Regexp{Op: OpAssert, Assert: a}, nil
}

// parseClass parses a bracket expression starting at '['.
func (p *parser) parseClass() (*Regexp, error) {
	open := p.mark()
	p.advance()

	cls := &Class{}
	if !p.eof() && p.peek() == '^' {
		p.advance()
		cls.Negated = true
	}

	first := true
	for {
		if p.eof() {
			return nil, p.errorAt(ErrMissingBracket, open)
		}
		if p.peek() == ']' && !first {
			p.advance()
			break
		}
		first = false

		lo := p.mark()
		ranges, single, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if ranges != nil {
			cls.Ranges = append(cls.Ranges, ranges...)
			continue
		}

		// A '-' before ']' or at end is a literal, handled by the next atom.
		if next, ok := p.peekAt(1); p.eof() || p.peek() != '-' || !ok || next == ']' {
			cls.Ranges = append(cls.Ranges, ByteRange{Lo: single, Hi: single})
			continue
		}
		p.advance() // '-'

		hiRanges, hi, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if hiRanges != nil || hi < single {
			return nil, p.errorAt(ErrInvalidClassRange, lo)
		}
		cls.Ranges = append(cls.Ranges, ByteRange{Lo: single, Hi: hi})
	}
	return &Regexp{Op: OpClass, Class: cls}, nil
}

// parseClassAtom parses one class member. It returns either a set of ranges
// (for a shorthand such as \d) or a single byte.
func (p *parser) parseClassAtom() (ranges []ByteRange, single byte, err error) {
	at := p.mark()
	c := p.peek()
	if c >= utf8.RuneSelf {
		return nil, 0, p.errorAt(ErrInvalidClassRange, at)
	}
	p.advance()
	if c != '\\' {
		return nil, c, nil
	}

	if p.eof() {
		return nil, 0, p.errorAt(ErrTrailingBackslash, at)
	}
	esc := p.mark()
	c = p.peek()
	if isEscapableLiteral(c) {
		p.advance()
		return nil, c, nil
	}
	if b, ok := controlEscape(c); ok {
		p.advance()
		return nil, b, nil
	}
	if cls, ok := shorthandClass(c); ok {
		if cls.Negated {
			return nil, 0, p.errorAt(ErrInvalidClassRange, esc)
		}
		p.advance()
		return cls.Ranges, 0, nil
	}
	return nil, 0, p.errorAt(ErrInvalidEscape, esc)
}

func literal(b byte) *Regexp {
	return &Regexp{Op: OpLiteral, Byte: b}
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isQuantifier(b byte) bool {
	return b == '*' || b == '+' || b == '?' || b == '{'
}

// isEscapableLiteral reports whether \c denotes the literal byte c.
func isEscapableLiteral(c byte) bool {
	switch c {
	case '\\', '.', '*', '+', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$', '-', '/':
		return true
	}
	return false
}

func controlEscape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	}
	return 0, false
}

var (
	digitRanges = []ByteRange{{'0', '9'}}
	wordRanges  = []ByteRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges = []ByteRange{{'\t', '\n'}, {'\f', '\r'}, {' ', ' '}}
)

// shorthandClass returns the ASCII class for \d \D \w \W \s \S.
// \s follows Perl: tab, newline, form feed, carriage return and space.
func shorthandClass(c byte) (*Class, bool) {
	var ranges []ByteRange
	switch c | 0x20 {
	case 'd':
		ranges = digitRanges
	case 'w':
		ranges = wordRanges
	case 's':
		ranges = spaceRanges
	default:
		return nil, false
	}
	cls := &Class{
		Ranges:  append([]ByteRange(nil), ranges...),
		Negated: c >= 'A' && c <= 'Z',
	}
	return cls, true
}

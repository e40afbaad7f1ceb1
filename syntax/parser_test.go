package syntax

import (
	"errors"
	"strings"
	"testing"
)

func lit(s string) []*Regexp {
	out := make([]*Regexp, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, literal(s[i]))
	}
	return out
}

func concat(subs ...*Regexp) *Regexp {
	return &Regexp{Op: OpConcat, Sub: subs}
}

func group(idx int, sub *Regexp) *Regexp {
	return &Regexp{Op: OpGroup, Cap: idx, Sub: []*Regexp{sub}}
}

func repeat(sub *Regexp, lo, hi int) *Regexp {
	return &Regexp{Op: OpRepeat, Sub: []*Regexp{sub}, Min: lo, Max: hi, Greedy: true}
}

func alt(subs ...*Regexp) *Regexp {
	return &Regexp{Op: OpAlternate, Sub: subs}
}

func class(negated bool, ranges ...ByteRange) *Regexp {
	return &Regexp{Op: OpClass, Class: &Class{Ranges: ranges, Negated: negated}}
}

func assert(a Assertion) *Regexp {
	return &Regexp{Op: OpAssert, Assert: a}
}

func TestParseShapes(t *testing.T) {
	empty := &Regexp{Op: OpEmpty}

	tests := []struct {
		pattern string
		want    *Regexp
	}{
		{"", empty},
		{"a", literal('a')},
		{"abc", concat(lit("abc")...)},
		{".", &Regexp{Op: OpAnyByte}},
		{"a*", repeat(literal('a'), 0, -1)},
		{"a+", repeat(literal('a'), 1, -1)},
		{"a?", repeat(literal('a'), 0, 1)},
		{"a{3}", repeat(literal('a'), 3, 3)},
		{"a{2,}", repeat(literal('a'), 2, -1)},
		{"a{2,5}", repeat(literal('a'), 2, 5)},
		{"a|b", alt(literal('a'), literal('b'))},
		{"a|", alt(literal('a'), empty)},
		{"|", alt(empty, empty)},
		{"()", group(1, empty)},
		{"(a)(b)", concat(group(1, literal('a')), group(2, literal('b')))},
		{"((a)b)", group(1, concat(group(2, literal('a')), literal('b')))},
		{`(a)\1`, concat(group(1, literal('a')), &Regexp{Op: OpBackref, Cap: 1})},
		{`\12`, &Regexp{Op: OpBackref, Cap: 12}},
		{"^a$", concat(assert(BeginLine), literal('a'), assert(EndLine))},
		{`\Aa\z`, concat(assert(BeginText), literal('a'), assert(EndText))},
		{`\ba\B`, concat(assert(WordBoundary), literal('a'), assert(NoWordBoundary))},
		{`\.\*\-\/`, concat(lit(".*-/")...)},
		{`\n\t`, concat(lit("\n\t")...)},
		{"[abc]", class(false, ByteRange{'a', 'a'}, ByteRange{'b', 'b'}, ByteRange{'c', 'c'})},
		{"[^a-z]", class(true, ByteRange{'a', 'z'})},
		{"[]a]", class(false, ByteRange{']', ']'}, ByteRange{'a', 'a'})},
		{"[^]]", class(true, ByteRange{']', ']'})},
		{"[a-]", class(false, ByteRange{'a', 'a'}, ByteRange{'-', '-'})},
		{"[-a]", class(false, ByteRange{'-', '-'}, ByteRange{'a', 'a'})},
		{`[\d_]`, class(false, ByteRange{'0', '9'}, ByteRange{'_', '_'})},
		{`[\]]`, class(false, ByteRange{']', ']'})},
		{`\d`, class(false, ByteRange{'0', '9'})},
		{`\S`, class(true, spaceRanges...)},
		{"é", concat(lit("é")...)},
		{"é+", repeat(concat(lit("é")...), 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.pattern, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
		pos     int
		char    rune
	}{
		{`\q`, ErrInvalidEscape, 1, 'q'},
		{`ab\0`, ErrInvalidEscape, 3, '0'},
		{`a\`, ErrTrailingBackslash, 1, '\\'},
		{"a)", ErrUnmatchedParen, 1, ')'},
		{"(a", ErrMissingParen, 0, '('},
		{"x(a(b)", ErrMissingParen, 1, '('},
		{"*a", ErrMissingRepeatArgument, 0, '*'},
		{"a|+", ErrMissingRepeatArgument, 2, '+'},
		{"(*)", ErrMissingRepeatArgument, 1, '*'},
		{"a**", ErrMissingRepeatArgument, 2, '*'},
		{"a*?", ErrNonGreedy, 2, '?'},
		{"a+?", ErrNonGreedy, 2, '?'},
		{"a{1,2}?", ErrNonGreedy, 6, '?'},
		{"a{", ErrInvalidRepeatOp, 1, '{'},
		{"a{x}", ErrInvalidRepeatOp, 1, '{'},
		{"a{1,x}", ErrInvalidRepeatOp, 1, '{'},
		{"a{1", ErrInvalidRepeatOp, 1, '{'},
		{"a{3,2}", ErrInvalidRepeatSize, 1, '{'},
		{"a{99999999999}", ErrInvalidRepeatSize, 1, '{'},
		{"[abc", ErrMissingBracket, 0, '['},
		{"[]", ErrMissingBracket, 0, '['},
		{"[z-a]", ErrInvalidClassRange, 1, 'z'},
		{`[\D]`, ErrInvalidClassRange, 2, 'D'},
		{`[a-\d]`, ErrInvalidClassRange, 1, 'a'},
		{"[é]", ErrInvalidClassRange, 1, 'é'},
		{`[\q]`, ErrInvalidEscape, 2, 'q'},
		{"a]", ErrUnexpectedChar, 1, ']'},
		{"}", ErrUnexpectedChar, 0, '}'},
		// Positions count characters, not bytes.
		{"é)", ErrUnmatchedParen, 1, ')'},
		{"日本(", ErrMissingParen, 2, '('},
		{`ü\x`, ErrInvalidEscape, 2, 'x'},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.pattern, re)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.pattern, err, tt.code)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error %T is not *Error", tt.pattern, err)
			}
			if perr.Pos != tt.pos {
				t.Errorf("Parse(%q) position = %d, want %d", tt.pattern, perr.Pos, tt.pos)
			}
			if perr.Char != tt.char {
				t.Errorf("Parse(%q) char = %q, want %q", tt.pattern, perr.Char, tt.char)
			}
			if perr.Expr != tt.pattern {
				t.Errorf("Parse(%q) Expr = %q", tt.pattern, perr.Expr)
			}
		})
	}
}

func TestParseNestingDepth(t *testing.T) {
	p := Parser{MaxDepth: 3}
	if _, err := p.Parse("(((a)))"); err != nil {
		t.Fatalf("depth 3: unexpected error %v", err)
	}
	_, err := p.Parse("((((a))))")
	if !errors.Is(err, ErrNestingDepth) {
		t.Fatalf("depth 4: error = %v, want %v", err, ErrNestingDepth)
	}

	deep := strings.Repeat("(", DefaultMaxDepth+1) + strings.Repeat(")", DefaultMaxDepth+1)
	if _, err := Parse(deep); !errors.Is(err, ErrNestingDepth) {
		t.Fatalf("default limit: error = %v, want %v", err, ErrNestingDepth)
	}
}

func TestParseRepeatLimit(t *testing.T) {
	p := Parser{MaxRepeatCount: 10}
	if _, err := p.Parse("a{10}"); err != nil {
		t.Fatalf("a{10}: unexpected error %v", err)
	}
	for _, pattern := range []string{"a{11}", "a{1,11}", "a{11,}"} {
		if _, err := p.Parse(pattern); !errors.Is(err, ErrInvalidRepeatSize) {
			t.Errorf("%s: error = %v, want %v", pattern, err, ErrInvalidRepeatSize)
		}
	}
}

func TestCaptureNumbering(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"abc", 0},
		{"(a)", 1},
		{"(a)(b)(c)", 3},
		{"((a)|(b))*", 3},
		{`(a)\5`, 1},
	}
	for _, tt := range tests {
		re, err := Parse(tt.pattern)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.pattern, err)
		}
		if got := re.NumCap(); got != tt.want {
			t.Errorf("NumCap(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	patterns := []string{
		"abc",
		"a|b|",
		"(a|b)c",
		"[^a-z0-9]x",
		`\.\*\[`,
		"^a+b?c{2,3}d{4}e{5,}$",
		`(a)\1`,
		`(a)\1[0]`,
		`\b(foo)\B\A\z`,
		`[\]\-^]`,
	}
	for _, pattern := range patterns {
		re, err := Parse(pattern)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pattern, err)
		}
		s := re.String()
		again, err := Parse(s)
		if err != nil {
			t.Errorf("reparse of %q (from %q): %v", s, pattern, err)
			continue
		}
		if !again.Equal(re) {
			t.Errorf("round trip %q -> %q changed the tree", pattern, s)
		}
	}
}

func TestBackrefDigitString(t *testing.T) {
	re := concat(group(1, literal('a')), &Regexp{Op: OpBackref, Cap: 1}, literal('2'))
	if got, want := re.String(), `(a)\1[2]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestClassContains(t *testing.T) {
	c := &Class{Ranges: []ByteRange{{'a', 'c'}, {'x', 'x'}}}
	for _, b := range []byte("abcx") {
		if !c.Contains(b) {
			t.Errorf("Contains(%q) = false", b)
		}
	}
	if c.Contains('d') {
		t.Error("Contains('d') = true")
	}
	c.Negated = true
	if c.Contains('a') || !c.Contains('d') {
		t.Error("negated class membership is wrong")
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := Parse(`a\q`)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, part := range []string{"invalid escape", "'q'", "position 2", `"a\\q"`} {
		if !strings.Contains(msg, part) {
			t.Errorf("error %q missing %q", msg, part)
		}
	}
}

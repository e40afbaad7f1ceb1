package nfa

import "github.com/coregx/btre/syntax"

// checkAssert reports whether assertion a holds at position pos of input.
// pos may equal len(input).
func checkAssert(a syntax.Assertion, input []byte, pos int) bool {
	switch a {
	case syntax.BeginLine:
		return pos == 0 || input[pos-1] == '\n'
	case syntax.EndLine:
		return pos == len(input) || input[pos] == '\n'
	case syntax.BeginText:
		return pos == 0
	case syntax.EndText:
		return pos == len(input)
	case syntax.WordBoundary:
		return isWordBefore(input, pos) != isWordAt(input, pos)
	case syntax.NoWordBoundary:
		return isWordBefore(input, pos) == isWordAt(input, pos)
	}
	return false
}

func isWordBefore(input []byte, pos int) bool {
	return pos > 0 && isWordByte(input[pos-1])
}

func isWordAt(input []byte, pos int) bool {
	return pos < len(input) && isWordByte(input[pos])
}

// isWordByte reports whether b is an ASCII word character [0-9A-Za-z_].
func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || isASCIILetter(b)
}

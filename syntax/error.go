package syntax

import (
	"errors"
	"fmt"
)

// ErrorCode is a sentinel describing one class of syntax error.
// Every *Error unwraps to exactly one of the Err* values below.
type ErrorCode = error

// Syntax error sentinels.
var (
	// ErrInvalidEscape indicates a backslash followed by an unsupported character.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrTrailingBackslash indicates a pattern ending in a lone backslash.
	ErrTrailingBackslash = errors.New("trailing backslash at end of expression")

	// ErrUnmatchedParen indicates a ')' with no open group.
	ErrUnmatchedParen = errors.New("unexpected )")

	// ErrMissingParen indicates a group left open at end of input.
	ErrMissingParen = errors.New("missing closing )")

	// ErrMissingRepeatArgument indicates a quantifier with no preceding atom.
	ErrMissingRepeatArgument = errors.New("missing argument to repetition operator")

	// ErrNonGreedy indicates a lazy quantifier (*?, +?, ??, {m,n}?), which is unsupported.
	ErrNonGreedy = errors.New("non-greedy repetition is not supported")

	// ErrInvalidRepeatOp indicates a malformed {m,n} quantifier.
	ErrInvalidRepeatOp = errors.New("invalid repetition operator")

	// ErrInvalidRepeatSize indicates {m,n} with m > n, or a count above the limit.
	ErrInvalidRepeatSize = errors.New("invalid repeat count")

	// ErrMissingBracket indicates a character class left open at end of input.
	ErrMissingBracket = errors.New("missing closing ]")

	// ErrInvalidClassRange indicates a malformed class member, such as a reversed range.
	ErrInvalidClassRange = errors.New("invalid character class range")

	// ErrUnexpectedChar indicates a stray ']' or '}' outside its construct.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrNestingDepth indicates groups nested deeper than the parser allows.
	ErrNestingDepth = errors.New("expression nests too deeply")
)

// Error describes a failure to parse a pattern.
//
// Pos is a character offset into Expr: UTF-8 continuation bytes do not advance
// it, so "é(" reports the '(' at position 1, not 2.
type Error struct {
	Code ErrorCode
	Pos  int
	Char rune // offending character; 0 when the error is at end of input
	Expr string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("error parsing regexp: %v: %q at position %d in %q", e.Code, e.Char, e.Pos, e.Expr)
	}
	return fmt.Sprintf("error parsing regexp: %v at position %d in %q", e.Code, e.Pos, e.Expr)
}

// Unwrap returns the error code so errors.Is matches the sentinels.
func (e *Error) Unwrap() error {
	return e.Code
}

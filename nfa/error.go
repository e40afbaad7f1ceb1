// Package nfa compiles syntax trees into linear instruction programs and runs
// them with a backtracking VM.
//
// A program is an index-addressed slice of instructions: loops and branches are
// numeric jump targets, so a Prog is a plain value that can be shared read-only
// by any number of concurrent searches. Each search brings its own
// BacktrackerState.
package nfa

import (
	"errors"
	"fmt"
)

// Compile-time errors.
var (
	// ErrInvalidBackreference indicates a backreference to a group that does not exist.
	ErrInvalidBackreference = errors.New("invalid backreference")

	// ErrProgramTooLarge indicates the expanded program exceeds the instruction ceiling.
	ErrProgramTooLarge = errors.New("program exceeds instruction limit")

	// ErrNonGreedy indicates a non-greedy repetition, which the VM does not support.
	ErrNonGreedy = errors.New("non-greedy repetition is not supported")

	// ErrTooComplex indicates the syntax tree nests deeper than the compiler allows.
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidProgram indicates a builder produced a jump or split out of range.
	ErrInvalidProgram = errors.New("invalid program")
)

// Evaluation-time errors. These are never caused by user input; seeing one
// means the compiler and VM disagree about the program.
var (
	// ErrPCOverflow indicates the program counter could not be advanced.
	ErrPCOverflow = errors.New("program counter overflow")

	// ErrIndexOverflow indicates the input position could not be advanced.
	ErrIndexOverflow = errors.New("input index overflow")

	// ErrInvalidPC indicates a jump or fetch outside the program.
	ErrInvalidPC = errors.New("invalid program counter")
)

// CompileError wraps compilation errors with the pattern being compiled.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BackrefError reports a backreference whose index names no capturing group.
type BackrefError struct {
	Index int
}

// Error implements the error interface
func (e *BackrefError) Error() string {
	return fmt.Sprintf("%v \\%d", ErrInvalidBackreference, e.Index)
}

// Unwrap returns ErrInvalidBackreference.
func (e *BackrefError) Unwrap() error {
	return ErrInvalidBackreference
}

// EvalError reports an internal fault during evaluation, with the program
// counter and input position where it happened.
type EvalError struct {
	PC  PC
	Pos int
	Err error
}

// Error implements the error interface
func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation fault at pc %d, position %d: %v", e.PC, e.Pos, e.Err)
}

// Unwrap returns the underlying error
func (e *EvalError) Unwrap() error {
	return e.Err
}

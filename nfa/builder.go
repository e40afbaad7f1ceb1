package nfa

import (
	"fmt"

	"github.com/coregx/btre/internal/conv"
	"github.com/coregx/btre/syntax"
)

// Builder appends instructions to a program under construction.
// Forward jumps are emitted with a placeholder target and fixed up with
// PatchJump or PatchSplit once the target is known.
type Builder struct {
	insts    []Inst
	maxInsts int
}

// NewBuilder creates a builder that refuses to grow past maxInsts
// instructions. A non-positive limit means DefaultMaxInsts.
func NewBuilder(maxInsts int) *Builder {
	if maxInsts <= 0 {
		maxInsts = DefaultMaxInsts
	}
	return &Builder{
		insts:    make([]Inst, 0, 16),
		maxInsts: maxInsts,
	}
}

// Next returns the pc the next emitted instruction will get.
func (b *Builder) Next() PC {
	// len(b.insts) <= maxInsts, which fits in a PC (checked in emit).
	return PC(len(b.insts))
}

func (b *Builder) emit(inst Inst) (PC, error) {
	if len(b.insts) >= b.maxInsts {
		return 0, ErrProgramTooLarge
	}
	pc, ok := conv.IntToUint32(len(b.insts))
	if !ok {
		return 0, ErrProgramTooLarge
	}
	b.insts = append(b.insts, inst)
	return PC(pc), nil
}

// AddByte emits an instruction consuming the byte c.
func (b *Builder) AddByte(c byte) (PC, error) {
	return b.emit(Inst{Op: InstByte, Byte: c})
}

// AddAnyByte emits an instruction consuming any byte.
func (b *Builder) AddAnyByte() (PC, error) {
	return b.emit(Inst{Op: InstAnyByte})
}

// AddClass emits a class test with a precomputed membership table.
func (b *Builder) AddClass(c *syntax.Class) (PC, error) {
	return b.emit(Inst{Op: InstClass, Class: newByteClass(c)})
}

// AddAssert emits a zero-width assertion.
func (b *Builder) AddAssert(a syntax.Assertion) (PC, error) {
	return b.emit(Inst{Op: InstAssert, Assert: a})
}

// AddCapture emits a capture-start or capture-end mark for group index.
func (b *Builder) AddCapture(index int, isStart bool) (PC, error) {
	op := InstCaptureEnd
	if isStart {
		op = InstCaptureStart
	}
	return b.emit(Inst{Op: op, Arg: index})
}

// AddBackref emits a backreference to group index.
func (b *Builder) AddBackref(index int) (PC, error) {
	return b.emit(Inst{Op: InstBackref, Arg: index})
}

// AddSplit emits a split preferring x over y.
func (b *Builder) AddSplit(x, y PC) (PC, error) {
	return b.emit(Inst{Op: InstSplit, X: x, Y: y})
}

// AddJump emits an unconditional jump to x.
func (b *Builder) AddJump(x PC) (PC, error) {
	return b.emit(Inst{Op: InstJump, X: x})
}

// AddMatch emits the accepting instruction.
func (b *Builder) AddMatch() (PC, error) {
	return b.emit(Inst{Op: InstMatch})
}

// PatchJump sets the target of the jump at pc.
func (b *Builder) PatchJump(pc, target PC) error {
	if int(pc) >= len(b.insts) {
		return fmt.Errorf("%w: patch of pc %d out of bounds", ErrInvalidProgram, pc)
	}
	inst := &b.insts[pc]
	if inst.Op != InstJump {
		return fmt.Errorf("%w: cannot patch %s at pc %d as jump", ErrInvalidProgram, inst.Op, pc)
	}
	inst.X = target
	return nil
}

// PatchSplit sets both targets of the split at pc.
func (b *Builder) PatchSplit(pc, x, y PC) error {
	if int(pc) >= len(b.insts) {
		return fmt.Errorf("%w: patch of pc %d out of bounds", ErrInvalidProgram, pc)
	}
	inst := &b.insts[pc]
	if inst.Op != InstSplit {
		return fmt.Errorf("%w: cannot patch %s at pc %d as split", ErrInvalidProgram, inst.Op, pc)
	}
	inst.X, inst.Y = x, y
	return nil
}

// Validate checks that every jump and split target is inside the program
// and that the last instruction, and only it, is InstMatch.
func (b *Builder) Validate() error {
	n := len(b.insts)
	if n == 0 || b.insts[n-1].Op != InstMatch {
		return fmt.Errorf("%w: program does not end in match", ErrInvalidProgram)
	}
	for pc := range b.insts {
		inst := &b.insts[pc]
		switch inst.Op {
		case InstSplit:
			if int(inst.X) >= n || int(inst.Y) >= n {
				return fmt.Errorf("%w: split at pc %d targets %d, %d", ErrInvalidProgram, pc, inst.X, inst.Y)
			}
		case InstJump:
			if int(inst.X) >= n {
				return fmt.Errorf("%w: jump at pc %d targets %d", ErrInvalidProgram, pc, inst.X)
			}
		case InstMatch:
			if pc != n-1 {
				return fmt.Errorf("%w: match at pc %d before end", ErrInvalidProgram, pc)
			}
		}
	}
	return nil
}

// Build validates the instructions and returns the finished program.
// The builder must not be used afterwards.
func (b *Builder) Build(numCap int, backrefs []int) (*Prog, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Prog{
		Insts:    b.insts,
		NumCap:   numCap,
		Backrefs: backrefs,
	}, nil
}

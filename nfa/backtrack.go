package nfa

import (
	"bytes"
	"encoding/binary"

	"github.com/coregx/btre/internal/conv"
	"github.com/coregx/btre/simd"
)

// DefaultMaxVisitedBits bounds the dense visited bitset: 2M bits = 256KB.
// Larger searches track visited states in a map instead.
const DefaultMaxVisitedBits = 256 * 1024 * 8

// Backtracker runs a Prog against byte input by depth-first search over
// (pc, position, captures), trying the preferred branch of every split first.
// The first accepting path ends the search (leftmost-first).
//
// A Backtracker is immutable and safe for concurrent use. Per-search memory
// lives in a BacktrackerState, which must not be shared between goroutines.
type Backtracker struct {
	prog           *Prog
	plan           *SearchPlan
	maxVisitedBits int
}

// BacktrackerOption configures a Backtracker.
type BacktrackerOption func(*Backtracker)

// WithoutPlan disables start-offset skipping: every offset is evaluated.
func WithoutPlan() BacktrackerOption {
	return func(b *Backtracker) {
		b.plan = nil
	}
}

// WithMaxVisitedBits sets the largest visited bitset, in bits, before the
// search switches to a map. Non-positive values keep the default.
func WithMaxVisitedBits(n int) BacktrackerOption {
	return func(b *Backtracker) {
		if n > 0 {
			b.maxVisitedBits = n
		}
	}
}

// NewBacktracker creates a backtracker for prog. plan may be nil, in which
// case no start offsets are skipped.
func NewBacktracker(prog *Prog, plan *SearchPlan, opts ...BacktrackerOption) *Backtracker {
	b := &Backtracker{
		prog:           prog,
		plan:           plan,
		maxVisitedBits: DefaultMaxVisitedBits,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Prog returns the program being run.
func (b *Backtracker) Prog() *Prog {
	return b.prog
}

// frame is an entry of the explicit backtracking stack: either a pending
// alternative (pc, pos) or a capture slot to restore on the way back.
type frame struct {
	restore bool
	pc      PC
	pos     int
	slot    int
	old     int
}

type visitKey struct {
	pc  PC
	pos int
}

// visitMode selects how a search records visited states.
type visitMode uint8

const (
	visitBits visitMode = iota // dense bitset over (pc, pos)
	visitMap                   // map over (pc, pos) for large inputs
	visitKeyed                 // map over (pc, pos, referenced captures)
)

// BacktrackerState holds the mutable memory of one search.
type BacktrackerState struct {
	stack []frame
	slots []int

	mode     visitMode
	bits     []uint64
	stride   int
	plain    map[visitKey]struct{}
	extended map[string]struct{}
	key      []byte
}

// NewBacktrackerState creates an empty state. Buffers grow on first use and
// are reused by later searches.
func NewBacktrackerState() *BacktrackerState {
	return &BacktrackerState{}
}

// Slots returns the capture table of the last search. It is overwritten by
// the next search using this state.
func (s *BacktrackerState) Slots() []int {
	return s.slots
}

// reset sizes the state for prog over an input of length n.
func (s *BacktrackerState) reset(b *Backtracker, n int) {
	prog := b.prog
	numSlots := prog.NumSlots()
	if cap(s.slots) < numSlots {
		s.slots = make([]int, numSlots)
	}
	s.slots = s.slots[:numSlots]
	s.stack = s.stack[:0]

	insts := prog.Len()
	switch {
	case prog.HasBackrefs():
		s.mode = visitKeyed
		if s.extended == nil {
			s.extended = make(map[string]struct{})
		} else {
			clear(s.extended)
		}
	case insts > 0 && n < b.maxVisitedBits/insts:
		s.mode = visitBits
		s.stride = n + 1
		words := (insts*s.stride + 63) / 64
		if cap(s.bits) < words {
			s.bits = make([]uint64, words)
		} else {
			s.bits = s.bits[:words]
			clear(s.bits)
		}
	default:
		s.mode = visitMap
		if s.plain == nil {
			s.plain = make(map[visitKey]struct{})
		} else {
			clear(s.plain)
		}
	}
}

// visit marks the search state as visited and reports whether it was new.
// Without backreferences the state is (pc, pos). With them the slots of every
// referenced group are part of the key, since the same (pc, pos) can succeed
// or fail depending on what a backreference will compare against.
func (s *BacktrackerState) visit(prog *Prog, pc PC, pos int) bool {
	switch s.mode {
	case visitKeyed:
		k := s.key[:0]
		k = binary.AppendUvarint(k, uint64(pc))
		k = binary.AppendUvarint(k, uint64(pos))
		for _, g := range prog.Backrefs {
			k = binary.AppendUvarint(k, uint64(s.slots[2*g]+1))
			k = binary.AppendUvarint(k, uint64(s.slots[2*g+1]+1))
		}
		s.key = k
		if _, ok := s.extended[string(k)]; ok {
			return false
		}
		s.extended[string(k)] = struct{}{}
		return true
	case visitMap:
		key := visitKey{pc: pc, pos: pos}
		if _, ok := s.plain[key]; ok {
			return false
		}
		s.plain[key] = struct{}{}
		return true
	default:
		idx := int(pc)*s.stride + pos
		word, bit := idx/64, uint64(1)<<(idx%64)
		if s.bits[word]&bit != 0 {
			return false
		}
		s.bits[word] |= bit
		return true
	}
}

// IsMatch reports whether the program matches anywhere in input, using a
// fresh state.
func (b *Backtracker) IsMatch(input []byte, fold bool) (bool, error) {
	return b.IsMatchWithState(NewBacktrackerState(), input, fold)
}

// IsMatchWithState is IsMatch with caller-provided scratch memory.
func (b *Backtracker) IsMatchWithState(state *BacktrackerState, input []byte, fold bool) (bool, error) {
	return b.search(state, input, fold)
}

// Captures returns the capture table of the first match, or nil if there is
// none. Slots 0 and 1 hold the overall match; slots 2i and 2i+1 hold group i,
// with -1 for groups that did not participate.
func (b *Backtracker) Captures(input []byte, fold bool) ([]int, error) {
	return b.CapturesWithState(NewBacktrackerState(), input, fold)
}

// CapturesWithState is Captures with caller-provided scratch memory. The
// returned slice is a copy and stays valid after the state is reused.
func (b *Backtracker) CapturesWithState(state *BacktrackerState, input []byte, fold bool) ([]int, error) {
	ok, err := b.search(state, input, fold)
	if err != nil || !ok {
		return nil, err
	}
	return append([]int(nil), state.slots...), nil
}

// search tries each candidate start offset in order, 0 through len(input).
func (b *Backtracker) search(st *BacktrackerState, input []byte, fold bool) (bool, error) {
	st.reset(b, len(input))
	start := 0
	for start <= len(input) {
		start = b.nextCandidate(input, start, fold)
		if start < 0 {
			return false, nil
		}
		ok, err := b.run(st, input, start, fold)
		if ok || err != nil {
			return ok, err
		}
		start++
	}
	return false, nil
}

// nextCandidate returns the first offset at or after start where a match
// could begin, or -1 if there is none. Without a usable plan every offset is
// a candidate.
func (b *Backtracker) nextCandidate(input []byte, start int, fold bool) int {
	plan := b.plan
	if plan == nil || !plan.CanSkip() {
		return start
	}
	// A match here consumes at least one byte, so the end offset is out.
	if start >= len(input) {
		return -1
	}

	var i int
	switch {
	case len(plan.LeadingLiteral) > 0 && fold:
		i = simd.MemmemFold(input[start:], plan.LeadingLiteral)
	case len(plan.LeadingLiteral) > 0:
		i = simd.Memmem(input[start:], plan.LeadingLiteral)
	default:
		i = simd.MemchrInTable(input[start:], plan.FirstBytes.Table(fold))
	}
	if i < 0 {
		return -1
	}
	return start + i
}

// run evaluates the program anchored at start.
func (b *Backtracker) run(st *BacktrackerState, input []byte, start int, fold bool) (bool, error) {
	insts := b.prog.Insts
	n := len(input)

	for i := range st.slots {
		st.slots[i] = -1
	}
	st.slots[0] = start
	st.stack = append(st.stack[:0], frame{pc: 0, pos: start})

	for len(st.stack) > 0 {
		f := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		if f.restore {
			st.slots[f.slot] = f.old
			continue
		}

		pc, pos := f.pc, f.pos
	thread:
		for {
			if int(pc) >= len(insts) {
				return false, &EvalError{PC: pc, Pos: pos, Err: ErrInvalidPC}
			}
			if !st.visit(b.prog, pc, pos) {
				break
			}

			inst := &insts[pc]
			advance := 0
			switch inst.Op {
			case InstByte:
				if pos >= n || !foldEqual(inst.Byte, input[pos], fold) {
					break thread
				}
				advance = 1
			case InstAnyByte:
				if pos >= n {
					break thread
				}
				advance = 1
			case InstClass:
				if pos >= n || !inst.Class.Matches(input[pos], fold) {
					break thread
				}
				advance = 1
			case InstAssert:
				if !checkAssert(inst.Assert, input, pos) {
					break thread
				}
			case InstCaptureStart, InstCaptureEnd:
				slot := 2 * inst.Arg
				if inst.Op == InstCaptureEnd {
					slot++
				}
				st.stack = append(st.stack, frame{restore: true, slot: slot, old: st.slots[slot]})
				st.slots[slot] = pos
			case InstBackref:
				l, ok := matchBackref(st.slots, inst.Arg, input, pos, fold)
				if !ok {
					break thread
				}
				advance = l
			case InstSplit:
				st.stack = append(st.stack, frame{pc: inst.Y, pos: pos})
				pc = inst.X
				continue
			case InstJump:
				pc = inst.X
				continue
			case InstMatch:
				st.slots[1] = pos
				return true, nil
			}

			next, ok := conv.AddInt(pos, advance)
			if !ok {
				return false, &EvalError{PC: pc, Pos: pos, Err: ErrIndexOverflow}
			}
			nextPC, ok := conv.IncUint32(uint32(pc))
			if !ok {
				return false, &EvalError{PC: pc, Pos: pos, Err: ErrPCOverflow}
			}
			pc, pos = PC(nextPC), next
		}
	}
	return false, nil
}

// matchBackref compares the text captured by group at pos and returns its
// length. A group without a complete span never matches.
func matchBackref(slots []int, group int, input []byte, pos int, fold bool) (int, bool) {
	s, e := slots[2*group], slots[2*group+1]
	if s < 0 || e < s {
		return 0, false
	}
	l := e - s
	if l > len(input)-pos {
		return 0, false
	}
	want, got := input[s:e], input[pos:pos+l]
	if fold {
		return l, simd.EqualFold(want, got)
	}
	return l, bytes.Equal(want, got)
}

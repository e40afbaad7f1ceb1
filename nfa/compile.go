package nfa

import (
	"slices"

	"github.com/coregx/btre/syntax"
)

// DefaultMaxInsts is the default instruction ceiling for a compiled program.
const DefaultMaxInsts = 1 << 16

// CompilerConfig configures compilation.
type CompilerConfig struct {
	// MaxInsts is the instruction ceiling. Bounded repeats are expanded by
	// copying, so a{1,100000} needs 100000+ instructions and fails here
	// instead of allocating without limit.
	// Default: 65536
	MaxInsts int

	// MaxRecursionDepth limits recursion over the syntax tree.
	// Default: 1000
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxInsts:          DefaultMaxInsts,
		MaxRecursionDepth: 1000,
	}
}

// Compiler translates syntax trees into programs.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int
}

// NewCompiler creates a compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxInsts <= 0 {
		config.MaxInsts = def.MaxInsts
	}
	if config.MaxRecursionDepth <= 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	return &Compiler{config: config}
}

// CompileRegexp compiles a syntax tree into a program ending in a single
// InstMatch.
//
// Every backreference must name an existing group (1 <= index <= NumCap),
// otherwise a *BackrefError is returned before any code is generated.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*Prog, error) {
	numCap := re.NumCap()
	backrefs, err := collectBackrefs(re, numCap)
	if err != nil {
		return nil, err
	}

	c.builder = NewBuilder(c.config.MaxInsts)
	c.depth = 0

	if err := c.compile(re); err != nil {
		return nil, err
	}
	if _, err := c.builder.AddMatch(); err != nil {
		return nil, err
	}
	prog, err := c.builder.Build(numCap, backrefs)
	c.builder = nil
	return prog, err
}

// collectBackrefs validates backreference indices and returns the distinct
// referenced groups in increasing order.
func collectBackrefs(re *syntax.Regexp, numCap int) ([]int, error) {
	var refs []int
	var bad *BackrefError
	re.Walk(func(n *syntax.Regexp) bool {
		if bad != nil {
			return false
		}
		if n.Op != syntax.OpBackref {
			return true
		}
		if n.Cap < 1 || n.Cap > numCap {
			bad = &BackrefError{Index: n.Cap}
			return false
		}
		if !slices.Contains(refs, n.Cap) {
			refs = append(refs, n.Cap)
		}
		return true
	})
	if bad != nil {
		return nil, bad
	}
	slices.Sort(refs)
	return refs, nil
}

func (c *Compiler) compile(re *syntax.Regexp) error {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return ErrTooComplex
	}

	var err error
	switch re.Op {
	case syntax.OpEmpty:
	case syntax.OpLiteral:
		_, err = c.builder.AddByte(re.Byte)
	case syntax.OpAnyByte:
		_, err = c.builder.AddAnyByte()
	case syntax.OpClass:
		_, err = c.builder.AddClass(re.Class)
	case syntax.OpAssert:
		_, err = c.builder.AddAssert(re.Assert)
	case syntax.OpBackref:
		_, err = c.builder.AddBackref(re.Cap)
	case syntax.OpGroup:
		err = c.compileGroup(re)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err = c.compile(sub); err != nil {
				break
			}
		}
	case syntax.OpAlternate:
		err = c.compileAlternate(re.Sub)
	case syntax.OpRepeat:
		err = c.compileRepeat(re)
	default:
		err = ErrInvalidProgram
	}
	return err
}

func (c *Compiler) compileGroup(re *syntax.Regexp) error {
	if re.Cap == 0 {
		return c.compile(re.Sub[0])
	}
	if _, err := c.builder.AddCapture(re.Cap, true); err != nil {
		return err
	}
	if err := c.compile(re.Sub[0]); err != nil {
		return err
	}
	_, err := c.builder.AddCapture(re.Cap, false)
	return err
}

// compileAlternate emits B1..Bn as
//
//	    split L1, L2
//	L1: B1
//	    jmp exit
//	L2: split L3, L4
//	L3: B2
//	    jmp exit
//	L4: Bn
//	exit:
func (c *Compiler) compileAlternate(branches []*syntax.Regexp) error {
	b := c.builder
	jumps := make([]PC, 0, len(branches)-1)

	for i, branch := range branches {
		if i == len(branches)-1 {
			if err := c.compile(branch); err != nil {
				return err
			}
			break
		}

		split, err := b.AddSplit(0, 0)
		if err != nil {
			return err
		}
		if err := c.compile(branch); err != nil {
			return err
		}
		jmp, err := b.AddJump(0)
		if err != nil {
			return err
		}
		jumps = append(jumps, jmp)
		if err := b.PatchSplit(split, split+1, b.Next()); err != nil {
			return err
		}
	}

	exit := b.Next()
	for _, jmp := range jumps {
		if err := b.PatchJump(jmp, exit); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileRepeat(re *syntax.Regexp) error {
	if !re.Greedy {
		return ErrNonGreedy
	}
	sub := re.Sub[0]

	for i := 0; i < re.Min; i++ {
		if err := c.compile(sub); err != nil {
			return err
		}
	}
	if re.Max == -1 {
		return c.compileStar(sub)
	}
	return c.compileOptionalCopies(sub, re.Max-re.Min)
}

// compileStar emits
//
//	L:  split L+1, exit
//	    child
//	    jmp L
//	exit:
func (c *Compiler) compileStar(sub *syntax.Regexp) error {
	b := c.builder
	split, err := b.AddSplit(0, 0)
	if err != nil {
		return err
	}
	if err := c.compile(sub); err != nil {
		return err
	}
	if _, err := b.AddJump(split); err != nil {
		return err
	}
	return b.PatchSplit(split, split+1, b.Next())
}

// compileOptionalCopies emits n nested optional copies of sub. Every skip
// branch goes to the common exit, so declining one copy declines the rest.
func (c *Compiler) compileOptionalCopies(sub *syntax.Regexp, n int) error {
	b := c.builder
	splits := make([]PC, 0, min(n, c.config.MaxInsts))
	for i := 0; i < n; i++ {
		split, err := b.AddSplit(0, 0)
		if err != nil {
			return err
		}
		splits = append(splits, split)
		if err := c.compile(sub); err != nil {
			return err
		}
	}

	exit := b.Next()
	for _, split := range splits {
		if err := b.PatchSplit(split, split+1, exit); err != nil {
			return err
		}
	}
	return nil
}

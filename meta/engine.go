package meta

import (
	"unsafe"

	"github.com/coregx/btre/literal"
	"github.com/coregx/btre/nfa"
	"github.com/coregx/btre/prefilter"
	"github.com/coregx/btre/syntax"
)

// Engine is a compiled pattern.
type Engine struct {
	pattern     string
	config      Config
	prog        *nfa.Prog
	plan        *nfa.SearchPlan
	backtracker *nfa.Backtracker
	prefilters  []prefilter.Prefilter
	states      *searchStatePool
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig parses and compiles pattern.
//
// Errors are a *ConfigError for an invalid config, a *syntax.Error for
// malformed pattern text, or a *nfa.CompileError for a pattern that parses
// but cannot be compiled.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	parser := syntax.Parser{
		MaxDepth:       config.MaxNestingDepth,
		MaxRepeatCount: config.MaxRepeatCount,
	}
	re, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxInsts: config.MaxInsts,
		// Each group level adds at most a group, alternate, concat and
		// repeat node to the tree.
		MaxRecursionDepth: 4*config.MaxNestingDepth + 4,
	})
	prog, err := compiler.CompileRegexp(re)
	if err != nil {
		return nil, &nfa.CompileError{Pattern: pattern, Err: err}
	}

	plan := nfa.BuildPlan(prog)
	e := &Engine{
		pattern: pattern,
		config:  config,
		prog:    prog,
		plan:    plan,
		backtracker: nfa.NewBacktracker(prog, plan,
			nfa.WithMaxVisitedBits(config.MaxVisitedBits)),
		states: newSearchStatePool(),
	}
	if config.EnablePrefilter {
		seqs := literal.New(literal.DefaultConfig()).Extract(re)
		e.prefilters = prefilter.Build(seqs, config.ASCIIIgnoreCase)
	}
	return e, nil
}

// Pattern returns the source text of the pattern.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Prog returns the compiled program.
func (e *Engine) Prog() *nfa.Prog {
	return e.prog
}

// Plan returns the search plan.
func (e *Engine) Plan() *nfa.SearchPlan {
	return e.plan
}

// NumCaptures returns the number of capture groups, not counting the
// overall match.
func (e *Engine) NumCaptures() int {
	return e.prog.NumCap
}

// NumPrefilters returns how many literal prefilters guard the VM.
func (e *Engine) NumPrefilters() int {
	return len(e.prefilters)
}

// IsMatch reports whether the pattern matches anywhere in haystack.
// A non-nil error means the VM hit an internal fault, never a user error.
func (e *Engine) IsMatch(haystack []byte) (bool, error) {
	if !prefilter.MayMatch(e.prefilters, haystack) {
		return false, nil
	}
	state := e.states.get()
	defer e.states.put(state)
	return e.backtracker.IsMatchWithState(state.backtracker, haystack, e.config.ASCIIIgnoreCase)
}

// IsMatchString is IsMatch for a string, without copying it.
func (e *Engine) IsMatchString(s string) (bool, error) {
	return e.IsMatch(stringBytes(s))
}

// Captures returns the capture slots of the first match, or nil if there is
// none. Slots 2i and 2i+1 hold the byte offsets of group i, where group 0 is
// the whole match; a group that did not participate has -1 in both.
func (e *Engine) Captures(haystack []byte) ([]int, error) {
	if !prefilter.MayMatch(e.prefilters, haystack) {
		return nil, nil
	}
	state := e.states.get()
	defer e.states.put(state)
	return e.backtracker.CapturesWithState(state.backtracker, haystack, e.config.ASCIIIgnoreCase)
}

// stringBytes views s as a byte slice. The VM only reads its input.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

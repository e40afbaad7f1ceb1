// Package btre is a backtracking regular expression engine with capture
// groups and backreferences.
//
// Patterns are parsed into a syntax tree, compiled into a linear instruction
// program, and evaluated by a backtracking VM over raw bytes. A search plan
// computed at compile time lets the VM skip start offsets where no match can
// begin, and required literals let it reject whole inputs up front.
//
// Basic usage:
//
//	re, err := btre.Compile(`(\w+) \1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := re.MatchString("hello hello") // true, nil
//
// Several patterns can be compiled into one Regex; it matches when any of
// them does:
//
//	re, err := btre.CompileSet("error", `warn(ing)?`)
//
// Supported syntax: literals, `.` (any byte), classes `[a-z]` and `[^...]`,
// `\d \w \s` and their negations (ASCII only), `^ $` (line), `\A \z` (text),
// `\b \B`, groups `(...)` which always capture, backreferences `\1`,
// alternation, and the greedy quantifiers `* + ? {m} {m,} {m,n}`.
//
// Not supported: non-greedy quantifiers, non-capturing groups, Unicode
// classes or case folding, and iteration over all matches.
//
// Match results carry an error because the VM reports internal faults
// instead of panicking. Such an error is never caused by the pattern or the
// input; it means the compiled program is inconsistent.
package btre

import (
	"fmt"
	"strings"

	"github.com/coregx/btre/meta"
)

// Regex is a compiled set of one or more patterns.
//
// A Regex is safe for concurrent use by multiple goroutines.
type Regex struct {
	engines []*meta.Engine
}

// Compile compiles a single pattern with the default configuration.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(DefaultConfig(), pattern)
}

// CompileSet compiles several patterns with the default configuration.
func CompileSet(patterns ...string) (*Regex, error) {
	return CompileWithConfig(DefaultConfig(), patterns...)
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("btre: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles patterns with a custom configuration.
//
// Compilation stops at the first pattern that fails; the error is a
// *PatternError naming it. An invalid config is reported as a
// *meta.ConfigError before any pattern is looked at.
//
// Example:
//
//	config := btre.DefaultConfig()
//	config.ASCIIIgnoreCase = true
//	re, err := btre.CompileWithConfig(config, "ab", "cd")
func CompileWithConfig(config meta.Config, patterns ...string) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	engines := make([]*meta.Engine, 0, len(patterns))
	for i, pattern := range patterns {
		e, err := meta.CompileWithConfig(pattern, config)
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: pattern, Err: err}
		}
		engines = append(engines, e)
	}
	return &Regex{engines: engines}, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// Match reports whether b matches any of the patterns.
func (r *Regex) Match(b []byte) (bool, error) {
	for _, e := range r.engines {
		ok, err := e.IsMatch(b)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// MatchString reports whether s matches any of the patterns. For valid
// UTF-8 text it agrees with Match on the same bytes.
func (r *Regex) MatchString(s string) (bool, error) {
	for _, e := range r.engines {
		ok, err := e.IsMatchString(s)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// FindSubmatchIndex returns the capture slots of the first pattern, in
// construction order, that matches b, or nil if none does.
//
// Slots 2i and 2i+1 are the byte offsets of group i; group 0 is the whole
// match. Groups that did not take part in the match hold -1.
func (r *Regex) FindSubmatchIndex(b []byte) ([]int, error) {
	for _, e := range r.engines {
		slots, err := e.Captures(b)
		if err != nil || slots != nil {
			return slots, err
		}
	}
	return nil, nil
}

// MatchingPatterns returns the indices of every pattern that matches b.
func (r *Regex) MatchingPatterns(b []byte) ([]int, error) {
	var out []int
	for i, e := range r.engines {
		ok, err := e.IsMatch(b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// NumPatterns returns the number of compiled patterns.
func (r *Regex) NumPatterns() int {
	return len(r.engines)
}

// NumSubexp returns the number of capture groups in pattern i.
func (r *Regex) NumSubexp(i int) int {
	return r.engines[i].NumCaptures()
}

// String returns the source text. Multiple patterns are joined with
// newlines, one per line.
func (r *Regex) String() string {
	parts := make([]string, 0, len(r.engines))
	for _, e := range r.engines {
		parts = append(parts, e.Pattern())
	}
	return strings.Join(parts, "\n")
}

// QuoteMeta returns s with every metacharacter escaped, so the result is a
// pattern matching s literally.
//
// Example:
//
//	btre.QuoteMeta("1+1=2?") // `1\+1=2\?`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			if sb.Len() == 0 && i > 0 {
				sb.Grow(len(s) + 8)
				sb.WriteString(s[:i])
			}
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		} else if sb.Len() > 0 {
			sb.WriteByte(s[i])
		}
	}
	if sb.Len() == 0 {
		return s
	}
	return sb.String()
}

// PatternError reports which pattern of a set failed to compile.
type PatternError struct {
	Index   int
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("btre: pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

// Unwrap returns the underlying parse or compile error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

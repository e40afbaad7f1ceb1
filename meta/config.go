// Package meta ties the pipeline together for a single pattern: parse,
// compile, plan the search, extract prefilters, and evaluate with pooled
// backtracker state.
//
// An Engine is immutable after Compile and safe for concurrent use.
package meta

import (
	"github.com/coregx/btre/nfa"
	"github.com/coregx/btre/syntax"
)

// Config controls compilation limits and matching behavior.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.ASCIIIgnoreCase = true
//	engine, err := meta.CompileWithConfig(`(ab)\1`, config)
type Config struct {
	// ASCIIIgnoreCase compares ASCII letters case-insensitively. Bytes outside
	// A-Z and a-z always compare exactly.
	// Default: false
	ASCIIIgnoreCase bool

	// EnablePrefilter rejects inputs lacking a required literal before the
	// VM runs. It never changes results.
	// Default: true
	EnablePrefilter bool

	// MaxInsts is the compiled program's instruction ceiling.
	// Default: 65536
	MaxInsts int

	// MaxNestingDepth limits group nesting in the pattern.
	// Default: 1000
	MaxNestingDepth int

	// MaxRepeatCount limits the counts of {m,n} repetitions.
	// Default: 1,000,000
	MaxRepeatCount int

	// MaxVisitedBits bounds the dense visited bitset. Searches that would
	// need more track visited states in a map.
	// Default: 2,097,152 (256KB)
	MaxVisitedBits int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
		MaxInsts:        nfa.DefaultMaxInsts,
		MaxNestingDepth: syntax.DefaultMaxDepth,
		MaxRepeatCount:  syntax.DefaultMaxRepeatCount,
		MaxVisitedBits:  nfa.DefaultMaxVisitedBits,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxInsts: 2 to 16,777,216
//   - MaxNestingDepth: 1 to 10,000
//   - MaxRepeatCount: 1 to 1,000,000
//   - MaxVisitedBits: 64 to 1<<30
func (c Config) Validate() error {
	if c.MaxInsts < 2 || c.MaxInsts > 1<<24 {
		return &ConfigError{
			Field:   "MaxInsts",
			Message: "must be between 2 and 16,777,216",
		}
	}
	if c.MaxNestingDepth < 1 || c.MaxNestingDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxNestingDepth",
			Message: "must be between 1 and 10,000",
		}
	}
	if c.MaxRepeatCount < 1 || c.MaxRepeatCount > 1_000_000 {
		return &ConfigError{
			Field:   "MaxRepeatCount",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.MaxVisitedBits < 64 || c.MaxVisitedBits > 1<<30 {
		return &ConfigError{
			Field:   "MaxVisitedBits",
			Message: "must be between 64 and 1,073,741,824",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "btre: invalid config: " + e.Field + ": " + e.Message
}

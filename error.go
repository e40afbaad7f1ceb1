package btre

import "errors"

// ErrNoPatterns is returned when a Regex is constructed from zero patterns.
var ErrNoPatterns = errors.New("btre: no patterns")

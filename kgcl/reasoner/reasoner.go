// Package reasoner defines the N3 Reasoner port (C2): applying a rule
// set to a state serialization and returning a deductive-closure
// serialization plus timing. Grounded on
// _examples/original_source/src/kgcl/hybrid/eye_reasoner.py's
// subprocess-with-timeout pattern, reimplemented as a Go
// os/exec.CommandContext invocation honoring context deadlines rather
// than Python's subprocess.run(timeout=...).
package reasoner

import "context"

// Result is the outcome of a single reasoning invocation.
type Result struct {
	Success    bool
	Output     string
	Error      string
	DurationMS float64
}

// Reasoner applies a rule set to a state snapshot and returns the
// deductive closure. Whether Output contains the input state plus new
// deductions, or only the delta, is implementation-defined; callers
// MUST load Output unconditionally and rely on store deduplication.
type Reasoner interface {
	// Reason applies rules to state and returns the closure.
	// Reasoning failures that are not availability or timeout issues
	// are reported via Result.Success=false, not an error return.
	Reason(ctx context.Context, state, rules string) (Result, error)

	// IsAvailable reports whether the underlying reasoner can be
	// invoked at all (executable present, endpoint reachable). A core
	// built without an available reasoner fails fast on first tick
	// rather than silently producing no progress.
	IsAvailable(ctx context.Context) bool
}

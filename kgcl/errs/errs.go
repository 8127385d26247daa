// Package errs defines the stable error-kind taxonomy surfaced by the
// hybrid knowledge-graph engine. Every fatal condition in the core is
// one of these kinds so that callers can distinguish retryable from
// fatal failures without parsing messages.
package errs

import "fmt"

// ParseError reports malformed Turtle, N3, or SPARQL input. The store
// is left unchanged when this is returned.
type ParseError struct {
	Format string // "turtle", "n3", "sparql"
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %v", e.Format, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ReasonerError reports a non-success result from the reasoner port.
type ReasonerError struct {
	Message string
}

func (e *ReasonerError) Error() string { return "reasoner error: " + e.Message }

// TimeoutError reports a reasoner (or other bounded) call exceeding
// its configured deadline.
type TimeoutError struct {
	Operation string
	Cause     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout in %s: %v", e.Operation, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// UnavailableError reports that an external collaborator (reasoner
// executable, store backend) could not be reached or opened. Fatal at
// construction; never surfaced mid-run.
type UnavailableError struct {
	Component string
	Cause     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// ValidationError wraps a SHACL validation result that contained at
// least one VIOLATION-severity finding.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}

// MutationError reports a failed SPARQL UPDATE application or a
// partially-failed batch.
type MutationError struct {
	Description string
	Cause       error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %q failed: %v", e.Description, e.Cause)
}

func (e *MutationError) Unwrap() error { return e.Cause }

// TransactionError reports begin-while-active, commit/rollback of a
// non-active transaction, or a rollback that itself failed.
type TransactionError struct {
	TransactionID string
	Reason        string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s: %s", e.TransactionID, e.Reason)
}

// ConvergenceError reports that max_ticks was exhausted without
// reaching delta=0.
type ConvergenceError struct {
	MaxTicks   int
	FinalDelta int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("did not converge within %d ticks (final delta=%d)", e.MaxTicks, e.FinalDelta)
}

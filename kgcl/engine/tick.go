// Tick executor (C7): one export-reason-ingest pass over the engine's
// store, grounded directly on
// _examples/original_source/src/kgcl/hybrid/application/tick_executor.py's
// TickExecutor.execute_tick: export state, fetch cached rules, run the
// reasoner, ingest its output unconditionally (relying on store
// dedup), measure delta.
package engine

import (
	"context"
	"time"

	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/eventlog"
	"eve.evalgo.org/kgcl/shacl"
	"eve.evalgo.org/kgcl/txn"
)

// TickResult is the per-tick outcome, mirroring tick_executor.py's
// PhysicsResult.
type TickResult struct {
	TickNumber     int
	TriplesBefore  int
	TriplesAfter   int
	Delta          int
	Converged      bool
	DurationMS     float64
	ReasonerOutput string
}

// ExecuteTick runs exactly one export-reason-ingest cycle inside the
// canonical begin/validate-pre/reason/validate-post/commit-or-rollback
// sequence: any failure after txn.begin restores the store to its
// pre-tick snapshot before the error is returned, mirroring
// transaction_port.py's documented TransactionManager contract.
func (e *Engine) ExecuteTick(ctx context.Context, tickNumber int) (TickResult, error) {
	start := time.Now()
	e.logEvent(ctx, eventlog.TickStart, map[string]interface{}{"tick": tickNumber})

	tx, err := e.Txn.Begin(ctx)
	if err != nil {
		return TickResult{}, err
	}

	before := tx.Snapshot.TripleCount
	pre := tx.Snapshot.Triples

	if valResult, verr := e.Validator.ValidatePreconditions(ctx, pre); verr == nil && !valResult.Conforms {
		e.logEvent(ctx, eventlog.ValidationFailure, map[string]interface{}{"tick": tickNumber, "violations": valResult.ViolationCount()})
		e.rollback(ctx, tx, "pre")
		return TickResult{}, &errs.ValidationError{Violations: violationMessages(valResult.Violations)}
	}

	stateText, err := e.Store.DumpTrig(ctx)
	if err != nil {
		e.rollback(ctx, tx, "export")
		return TickResult{}, err
	}
	ruleText, err := e.Rules.GetRules()
	if err != nil {
		e.rollback(ctx, tx, "rules")
		return TickResult{}, &errs.ReasonerError{Message: err.Error()}
	}

	result, err := e.Reasoner.Reason(ctx, stateText, ruleText)
	if err != nil {
		e.rollback(ctx, tx, "reasoner")
		return TickResult{}, err
	}
	if !result.Success {
		e.rollback(ctx, tx, "reasoner")
		return TickResult{}, &errs.ReasonerError{Message: result.Error}
	}

	if _, err := e.Store.LoadN3(ctx, result.Output); err != nil {
		e.rollback(ctx, tx, "ingest")
		return TickResult{}, err
	}

	after, err := e.Store.AllTriples(ctx)
	if err != nil {
		e.rollback(ctx, tx, "export-after")
		return TickResult{}, err
	}
	if valResult, verr := e.Validator.ValidatePostconditions(ctx, after); verr == nil && !valResult.Conforms {
		e.logEvent(ctx, eventlog.ValidationFailure, map[string]interface{}{"tick": tickNumber, "violations": valResult.ViolationCount()})
		e.rollback(ctx, tx, "post")
		return TickResult{}, &errs.ValidationError{Violations: violationMessages(valResult.Violations)}
	}

	if _, err := e.Txn.Commit(ctx, tx); err != nil {
		return TickResult{}, err
	}

	afterCount := len(after)
	delta := afterCount - before

	tr := TickResult{
		TickNumber:     tickNumber,
		TriplesBefore:  before,
		TriplesAfter:   afterCount,
		Delta:          delta,
		Converged:      delta == 0,
		DurationMS:     time.Since(start).Seconds() * 1000,
		ReasonerOutput: result.Output,
	}
	e.logEvent(ctx, eventlog.TickEnd, map[string]interface{}{"tick": tickNumber, "delta": delta, "converged": tr.Converged})
	return tr, nil
}

// rollback restores tx's opening snapshot, logging but not surfacing a
// secondary rollback failure beyond the primary error the caller is
// already returning; a rollback that itself fails is a critical error
// per transaction_port.py and is reported through the event log.
func (e *Engine) rollback(ctx context.Context, tx *txn.Transaction, reason string) {
	if _, err := e.Txn.Rollback(ctx, tx); err != nil {
		e.logEvent(ctx, eventlog.ValidationFailure, map[string]interface{}{"rollback_failed": reason, "error": err.Error()})
	}
}

func (e *Engine) logEvent(ctx context.Context, t eventlog.Type, payload map[string]interface{}) {
	if e.Events == nil {
		return
	}
	e.Events.Append(ctx, eventlog.NewEvent(t, "", payload))
}

func violationMessages(violations []shacl.Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Message
	}
	return out
}

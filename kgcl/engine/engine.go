// Package engine is the top-level facade composing the Store,
// Reasoner, Rules Provider, Validator, Mutator, and Transaction
// Manager ports into the hybrid tick/convergence workflow described
// in SPEC_FULL.md §6. Grounded structurally on
// _examples/original_source/src/kgcl/hybrid/application/tick_executor.py
// and convergence_runner.py, which compose the equivalent Python
// ports the same way.
package engine

import (
	"context"
	"sync"

	"eve.evalgo.org/common"
	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/eventlog"
	"eve.evalgo.org/kgcl/mutate"
	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/reasoner"
	"eve.evalgo.org/kgcl/rules"
	"eve.evalgo.org/kgcl/shacl"
	"eve.evalgo.org/kgcl/store"
	"eve.evalgo.org/kgcl/txn"

	"github.com/sirupsen/logrus"
)

// Engine is the assembled hybrid knowledge-graph evolution engine.
type Engine struct {
	Store     store.Store
	Reasoner  reasoner.Reasoner
	Rules     rules.Provider
	Validator *shacl.Validator
	Mutator   *mutate.Mutator
	Txn       *txn.Manager

	// Events is optional; when nil, tick/mutation/transaction
	// occurrences are not logged.
	Events eventlog.Store

	log *logrus.Logger

	mu        sync.Mutex
	tickCount int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithEventLog attaches an append-only event log.
func WithEventLog(s eventlog.Store) Option {
	return func(e *Engine) { e.Events = s }
}

// New assembles an Engine from its required collaborators. Reasoner
// availability is checked eagerly: an engine built without a reachable
// reasoner fails fast rather than producing silent non-progress on
// the first tick.
func New(ctx context.Context, s store.Store, r reasoner.Reasoner, rp rules.Provider, opts ...Option) (*Engine, error) {
	if !r.IsAvailable(ctx) {
		return nil, &errs.UnavailableError{Component: "reasoner"}
	}
	applier, ok := s.(mutationApplier)
	if !ok {
		return nil, &errs.UnavailableError{Component: "store (no ApplyMutation fast path)"}
	}
	snapshotter, ok := s.(txn.SnapshotStore)
	if !ok {
		return nil, &errs.UnavailableError{Component: "store (no snapshot support)"}
	}

	e := &Engine{
		Store:     s,
		Reasoner:  r,
		Rules:     rp,
		Validator: shacl.New(),
		Mutator:   mutate.New(s, applier, nil),
		Txn:       txn.New(snapshotter),
		log:       common.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type mutationApplier interface {
	ApplyMutation(deletes, inserts []rdf.Triple) (deleted, inserted int)
}

// LoadData loads initial ground triples expressed as Turtle into the
// engine's store.
func (e *Engine) LoadData(ctx context.Context, turtle string) (int, error) {
	return e.Store.LoadTurtle(ctx, turtle)
}

// Query runs a SPARQL SELECT against current store state.
func (e *Engine) Query(ctx context.Context, sparqlText string) ([]rdf.Binding, error) {
	return e.Store.Query(ctx, sparqlText)
}

// Inspect returns every triple currently held, for diagnostics and
// testing.
func (e *Engine) Inspect(ctx context.Context) ([]rdf.Triple, error) {
	return e.Store.AllTriples(ctx)
}

// ApplyMutation runs a single atomic state mutation (C5) directly,
// outside the tick loop, for callers that need to adjust state without
// triggering reasoning (e.g. seeding a counter before the first tick).
// It follows §4.6's mutation flow: begin → validate pre → apply →
// validate post → commit or rollback.
func (e *Engine) ApplyMutation(ctx context.Context, m mutate.Mutation) (mutate.Result, error) {
	tx, err := e.Txn.Begin(ctx)
	if err != nil {
		return mutate.Result{}, err
	}

	if valResult, verr := e.Validator.ValidatePreconditions(ctx, tx.Snapshot.Triples); verr == nil && !valResult.Conforms {
		e.rollback(ctx, tx, "pre")
		return mutate.Result{}, &errs.ValidationError{Violations: violationMessages(valResult.Violations)}
	}

	result, err := e.Mutator.ApplyMutation(ctx, m)
	if err != nil {
		e.rollback(ctx, tx, "mutation")
		return result, err
	}

	after, err := e.Store.AllTriples(ctx)
	if err != nil {
		e.rollback(ctx, tx, "export-after")
		return mutate.Result{}, err
	}
	if valResult, verr := e.Validator.ValidatePostconditions(ctx, after); verr == nil && !valResult.Conforms {
		e.rollback(ctx, tx, "post")
		return mutate.Result{}, &errs.ValidationError{Violations: violationMessages(valResult.Violations)}
	}

	if _, err := e.Txn.Commit(ctx, tx); err != nil {
		return mutate.Result{}, err
	}

	e.logMutation(ctx, m, result)
	return result, nil
}

func (e *Engine) logMutation(ctx context.Context, m mutate.Mutation, result mutate.Result) {
	if e.Events == nil {
		return
	}
	for _, t := range m.DeletePatterns {
		if !t.Subject.IsVariable() && !t.Object.IsVariable() {
			e.Events.Append(ctx, eventlog.NewEvent(eventlog.TripleRemoved, t.Graph, eventlog.TripleRemovedPayload(t)))
		}
	}
	for _, t := range m.InsertPatterns {
		if !t.Subject.IsVariable() && !t.Object.IsVariable() {
			e.Events.Append(ctx, eventlog.NewEvent(eventlog.TripleAdded, t.Graph, eventlog.TripleAddedPayload(t)))
		}
	}
}

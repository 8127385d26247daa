// Package mutate implements the State Mutator port (C5): atomic
// SPARQL-UPDATE-based DELETE/INSERT mutation, the sole sanctioned way
// to remove triples or update a counter in the engine. Grounded on
// _examples/original_source/src/kgcl/hybrid/ports/mutator_port.py's
// Triple/StateMutation dataclasses, reimplemented as Go value types
// over rdf.Triple rather than a dataclass-plus-Protocol pair.
package mutate

import (
	"context"
	"fmt"
	"strings"

	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/sparql"
	"eve.evalgo.org/kgcl/store"

	"github.com/sirupsen/logrus"
)

// Mutation is an immutable atomic delete/insert/where specification.
// It is the only mechanism for non-monotonic state change: reasoning
// (C2) may only add facts, Mutation may remove them.
type Mutation struct {
	DeletePatterns []rdf.Triple
	InsertPatterns []rdf.Triple
	WherePatterns  []rdf.Triple
	Bindings       map[string]string // variable name -> "BIND(...)" expression
	Description    string
}

// ToSPARQL renders the mutation as a single SPARQL 1.1
// DELETE { } INSERT { } WHERE { } request.
func (m Mutation) ToSPARQL() string {
	var parts []string
	if len(m.DeletePatterns) > 0 {
		parts = append(parts, fmt.Sprintf("DELETE {\n    %s\n}", joinPatterns(m.DeletePatterns)))
	}
	if len(m.InsertPatterns) > 0 {
		parts = append(parts, fmt.Sprintf("INSERT {\n    %s\n}", joinPatterns(m.InsertPatterns)))
	}
	var where []string
	if len(m.WherePatterns) > 0 {
		where = append(where, joinPatterns(m.WherePatterns))
	}
	for _, bind := range m.Bindings {
		where = append(where, bind)
	}
	parts = append(parts, fmt.Sprintf("WHERE {\n    %s\n}", strings.Join(where, " .\n    ")))
	return strings.Join(parts, "\n")
}

func joinPatterns(patterns []rdf.Triple) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = fmt.Sprintf("%s %s %s", p.Subject, p.Predicate, p.Object)
	}
	return strings.Join(parts, " .\n    ")
}

// Result is the outcome of a mutation or batch of mutations.
type Result struct {
	Success          bool
	MutationsApplied int
	TriplesDeleted   int
	TriplesInserted  int
	Error            string
}

// applier is the minimal surface mutate needs from a concrete store
// to commit resolved deletes/inserts; memstore.Store satisfies it.
type applier interface {
	ApplyMutation(deletes, inserts []rdf.Triple) (deleted, inserted int)
}

// Mutator applies atomic mutations against a Store. It resolves the
// WHERE clause and BIND expressions in-process via package sparql,
// then commits the resulting ground delete/insert sets to the store
// in a single call, per the "single store write" atomicity contract.
type Mutator struct {
	store store.Store
	apply applier
	log   *logrus.Logger
}

// New constructs a Mutator over the given store. apply must be the
// same underlying store exposing the ApplyMutation fast path (only
// memstore.Store does today); passing a store without it makes every
// mutation fail with MutationError.
func New(s store.Store, apply applier, log *logrus.Logger) *Mutator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mutator{store: s, apply: apply, log: log}
}

// ApplyMutation applies a single atomic mutation.
func (m *Mutator) ApplyMutation(ctx context.Context, mu Mutation) (Result, error) {
	return m.applyAll(ctx, []Mutation{mu})
}

// ApplyMutations applies a sequence atomically: all succeed or the
// batch leaves state unchanged. Because resolution (WHERE/BIND) never
// touches the store and commit is a single in-memory map operation
// per mutation, failure of mutation k means mutations 1..k-1 must be
// undone; this is done by recording their effects and reversing them.
func (m *Mutator) ApplyMutations(ctx context.Context, mutations []Mutation) (Result, error) {
	return m.applyAll(ctx, mutations)
}

func (m *Mutator) applyAll(ctx context.Context, mutations []Mutation) (Result, error) {
	if m.apply == nil {
		err := &errs.MutationError{Description: "batch", Cause: fmt.Errorf("store does not support direct mutation")}
		return Result{Success: false, Error: err.Error()}, err
	}
	type applied struct{ deletes, inserts []rdf.Triple }
	var done []applied

	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			// Undo by swapping delete/insert roles.
			m.apply.ApplyMutation(done[i].inserts, done[i].deletes)
		}
	}

	result := Result{Success: true}
	for _, mu := range mutations {
		solutions := sparql.Match(mustAll(ctx, m.store), mu.WherePatterns)
		if len(mu.WherePatterns) == 0 {
			solutions = []rdf.Binding{{}}
		}
		if len(solutions) == 0 {
			m.log.WithField("mutation", mu.Description).Info("mutation WHERE matched nothing, no-op")
			continue
		}
		sol := solutions[0]
		for name, expr := range mu.Bindings {
			v, err := sparql.EvalBind(expr, sol)
			if err != nil {
				rollback()
				merr := &errs.MutationError{Description: mu.Description, Cause: err}
				return Result{Success: false, Error: merr.Error()}, merr
			}
			sol[name] = v
		}

		deletes, err := resolveAll(mu.DeletePatterns, sol)
		if err != nil {
			rollback()
			merr := &errs.MutationError{Description: mu.Description, Cause: err}
			return Result{Success: false, Error: merr.Error()}, merr
		}
		inserts, err := resolveAll(mu.InsertPatterns, sol)
		if err != nil {
			rollback()
			merr := &errs.MutationError{Description: mu.Description, Cause: err}
			return Result{Success: false, Error: merr.Error()}, merr
		}

		deleted, inserted := m.apply.ApplyMutation(deletes, inserts)
		done = append(done, applied{deletes: deletes, inserts: inserts})
		result.MutationsApplied++
		result.TriplesDeleted += deleted
		result.TriplesInserted += inserted
	}
	return result, nil
}

func resolveAll(patterns []rdf.Triple, sol rdf.Binding) ([]rdf.Triple, error) {
	out := make([]rdf.Triple, 0, len(patterns))
	for _, p := range patterns {
		resolved, err := sparql.Substitute(p, sol)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func mustAll(ctx context.Context, s store.Store) []rdf.Triple {
	all, err := s.AllTriples(ctx)
	if err != nil {
		return nil
	}
	return all
}

// ExecuteSPARQLUpdate is the escape hatch for raw SPARQL UPDATE text,
// parsed via package sparql into the same Mutation shape and applied
// identically.
func (m *Mutator) ExecuteSPARQLUpdate(ctx context.Context, text string) (Result, error) {
	del, ins, where, binds, err := sparql.ParseUpdate(text)
	if err != nil {
		perr := &errs.ParseError{Format: "sparql-update", Cause: err}
		return Result{Success: false, Error: perr.Error()}, perr
	}
	bindMap := make(map[string]string, len(binds))
	for _, b := range binds {
		name, _, verr := sparql.EvalBind(b, rdf.Binding{})
		if verr == nil {
			bindMap[name] = b
		}
	}
	return m.applyAll(ctx, []Mutation{{
		DeletePatterns: del,
		InsertPatterns: ins,
		WherePatterns:  where,
		Bindings:       bindMap,
		Description:    "raw sparql update",
	}})
}

// Package memstore is the default, in-memory implementation of the
// RDF Store port. It backs tests and any engine construction that
// does not configure a persistent backend.
package memstore

import (
	"context"
	"sort"
	"sync"

	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/sparql"
)

// Store is a map-backed, mutex-guarded RDF store. Reads take the
// read lock; every mutating operation takes the write lock, matching
// the single-writer contract described in SPEC_FULL.md §5.
type Store struct {
	mu      sync.RWMutex
	triples map[string]rdf.Triple
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{triples: make(map[string]rdf.Triple)}
}

func (s *Store) LoadTurtle(ctx context.Context, text string) (int, error) {
	parsed, err := rdf.DecodeTurtle(text, rdf.DefaultGraph)
	if err != nil {
		return 0, &errs.ParseError{Format: "turtle", Cause: err}
	}
	return s.addAll(parsed), nil
}

func (s *Store) LoadN3(ctx context.Context, text string) (int, error) {
	// Reasoner closures are ground Turtle-compatible triples; N3 rule
	// syntax ({}=>{}.) never appears in tick output per SPEC_FULL.md.
	parsed, err := rdf.DecodeTurtle(text, rdf.DefaultGraph)
	if err != nil {
		return 0, &errs.ParseError{Format: "n3", Cause: err}
	}
	return s.addAll(parsed), nil
}

func (s *Store) LoadRaw(ctx context.Context, triples []rdf.Triple) (int, error) {
	return s.addAll(triples), nil
}

func (s *Store) addAll(triples []rdf.Triple) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, t := range triples {
		key := t.Key()
		if _, exists := s.triples[key]; !exists {
			s.triples[key] = t
			added++
		}
	}
	return added
}

func (s *Store) Dump(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rdf.EncodeTurtle(s.sortedLocked())
}

func (s *Store) DumpTrig(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rdf.EncodeTrig(s.sortedLocked())
}

func (s *Store) sortedLocked() []rdf.Triple {
	out := make([]rdf.Triple, 0, len(s.triples))
	for _, t := range s.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (s *Store) TripleCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples), nil
}

func (s *Store) Query(ctx context.Context, query string) ([]rdf.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sparql.Select(s.sortedLocked(), query)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = make(map[string]rdf.Triple)
	return nil
}

func (s *Store) AllTriples(ctx context.Context) ([]rdf.Triple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

func (s *Store) ReplaceAll(ctx context.Context, triples []rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = make(map[string]rdf.Triple, len(triples))
	for _, t := range triples {
		s.triples[t.Key()] = t
	}
	return nil
}

// ApplyMutation is used by mutate.Mutator to execute a DELETE/INSERT
// against this store's triple set directly, bypassing the SPARQL
// surface for the actual write (the mutator already resolved the
// WHERE bindings via sparql.Select).
func (s *Store) ApplyMutation(deletes, inserts []rdf.Triple) (deleted, inserted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range deletes {
		key := t.Key()
		if _, ok := s.triples[key]; ok {
			delete(s.triples, key)
			deleted++
		}
	}
	for _, t := range inserts {
		key := t.Key()
		if _, ok := s.triples[key]; !ok {
			s.triples[key] = t
			inserted++
		}
	}
	return deleted, inserted
}

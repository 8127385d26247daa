// Package store defines the RDF Store port (C1): the authoritative
// triple set, Turtle/N3 loading, serialization, and SPARQL query
// surface consumed by every other component of the engine.
package store

import (
	"context"

	"eve.evalgo.org/kgcl/rdf"
)

// Store is the RDF Store port. Implementations MUST make individual
// operations atomic; concurrent readers must see a consistent
// snapshot while writers serialize. Loading the same Turtle text
// twice is idempotent.
type Store interface {
	// LoadTurtle parses Turtle, adds the resulting triples, and
	// returns the count loaded. On malformed input it returns a
	// *errs.ParseError and leaves the store unchanged.
	LoadTurtle(ctx context.Context, text string) (int, error)

	// LoadN3 parses N3-serialized output (typically from the
	// reasoner) and adds the resulting triples.
	LoadN3(ctx context.Context, text string) (int, error)

	// LoadRaw adds triples the caller has already parsed.
	LoadRaw(ctx context.Context, triples []rdf.Triple) (int, error)

	// Dump serializes the entire store (default + named graphs
	// flattened) in Turtle-compatible form.
	Dump(ctx context.Context) (string, error)

	// DumpTrig serializes the store preserving named graphs, the
	// preferred input format for N3 reasoners.
	DumpTrig(ctx context.Context) (string, error)

	// TripleCount returns the store's cardinality.
	TripleCount(ctx context.Context) (int, error)

	// Query executes a SPARQL SELECT and returns variable bindings.
	// ASK is evaluated by the caller as len(Query(asSelect)) > 0.
	Query(ctx context.Context, sparql string) ([]rdf.Binding, error)

	// Clear removes every triple from the store.
	Clear(ctx context.Context) error

	// AllTriples returns every triple currently held, used by the
	// transaction manager to build snapshots and by the event log's
	// replay-equivalence tests.
	AllTriples(ctx context.Context) ([]rdf.Triple, error)

	// ReplaceAll atomically clears the store and loads the given
	// triples, used to restore a snapshot.
	ReplaceAll(ctx context.Context, triples []rdf.Triple) error
}

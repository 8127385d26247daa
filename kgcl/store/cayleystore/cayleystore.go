// Package cayleystore is a persistent Store adapter backed by a
// BoltDB-backed Cayley quad store, grounded on
// semantic/workflowgraph.go's NewWorkflowGraph/AddQuadSet/
// QuadsAllIterator/DumpGraph pattern, retargeted from JSON-LD
// workflow import to RDF triple load/dump/query. Intended for
// deployments that need graph state to survive process restarts
// without standing up a full RDF triplestore service.
package cayleystore

import (
	"context"
	"fmt"

	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/sparql"

	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/cayley/graph"
	_ "github.com/cayleygraph/cayley/graph/kv/bolt"
	"github.com/cayleygraph/quad"
)

// labelKey is the quad label used to carry the RDF named-graph IRI,
// since quad.Quad's own Label field is itself just a quad.Value.
const defaultLabel = "urn:kgcl:default"

// Store is a Cayley/BoltDB-backed implementation of store.Store.
type Store struct {
	handle *cayley.Handle
}

// Open initializes or opens a BoltDB-backed Cayley quad store at path.
func Open(path string) (*Store, error) {
	err := graph.InitQuadStore("bolt", path, nil)
	if err != nil && err != graph.ErrDatabaseExists {
		return nil, fmt.Errorf("cayleystore: init quadstore: %w", err)
	}
	handle, err := cayley.NewGraph("bolt", path, nil)
	if err != nil {
		return nil, fmt.Errorf("cayleystore: open: %w", err)
	}
	return &Store{handle: handle}, nil
}

func (s *Store) Close() error { return s.handle.Close() }

func tripleToQuad(t rdf.Triple) quad.Quad {
	label := t.Graph
	if label == "" {
		label = defaultLabel
	}
	return quad.Make(
		quad.IRI(t.Subject.Value),
		quad.IRI(t.Predicate.Value),
		termToQuadValue(t.Object),
		quad.String(label),
	)
}

func termToQuadValue(t rdf.Term) quad.Value {
	switch t.Kind {
	case rdf.KindIRI:
		return quad.IRI(t.Value)
	case rdf.KindBlank:
		return quad.BNode(t.Value)
	default:
		return quad.String(t.Value)
	}
}

func quadToTriple(q quad.Quad) (rdf.Triple, bool) {
	s, ok1 := q.Subject.(quad.IRI)
	p, ok2 := q.Predicate.(quad.IRI)
	if !ok1 || !ok2 {
		return rdf.Triple{}, false
	}
	var object rdf.Term
	switch o := q.Object.(type) {
	case quad.IRI:
		object = rdf.IRI(string(o))
	case quad.BNode:
		object = rdf.Blank(string(o))
	case quad.String:
		object = rdf.Literal(string(o))
	default:
		object = rdf.Literal(fmt.Sprintf("%v", o))
	}
	graphLabel := ""
	if lbl, ok := q.Label.(quad.String); ok && string(lbl) != defaultLabel {
		graphLabel = string(lbl)
	}
	return rdf.Triple{
		Subject:   rdf.IRI(string(s)),
		Predicate: rdf.IRI(string(p)),
		Object:    object,
		Graph:     graphLabel,
	}, true
}

func (s *Store) LoadTurtle(ctx context.Context, text string) (int, error) {
	triples, err := rdf.DecodeTurtle(text, rdf.DefaultGraph)
	if err != nil {
		return 0, &errs.ParseError{Format: "turtle", Cause: err}
	}
	return s.LoadRaw(ctx, triples)
}

func (s *Store) LoadN3(ctx context.Context, text string) (int, error) {
	triples, err := rdf.DecodeTurtle(text, rdf.DefaultGraph)
	if err != nil {
		return 0, &errs.ParseError{Format: "n3", Cause: err}
	}
	return s.LoadRaw(ctx, triples)
}

func (s *Store) LoadRaw(ctx context.Context, triples []rdf.Triple) (int, error) {
	existing, err := s.AllTriples(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.Key()] = true
	}

	var quads []quad.Quad
	added := 0
	for _, t := range triples {
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		quads = append(quads, tripleToQuad(t))
		added++
	}
	if len(quads) > 0 {
		if err := s.handle.AddQuadSet(quads); err != nil {
			return 0, fmt.Errorf("cayleystore: add quads: %w", err)
		}
	}
	return added, nil
}

func (s *Store) Dump(ctx context.Context) (string, error) {
	triples, err := s.AllTriples(ctx)
	if err != nil {
		return "", err
	}
	return rdf.EncodeTurtle(triples)
}

func (s *Store) DumpTrig(ctx context.Context) (string, error) {
	triples, err := s.AllTriples(ctx)
	if err != nil {
		return "", err
	}
	return rdf.EncodeTrig(triples)
}

func (s *Store) TripleCount(ctx context.Context) (int, error) {
	triples, err := s.AllTriples(ctx)
	return len(triples), err
}

func (s *Store) Query(ctx context.Context, sparqlText string) ([]rdf.Binding, error) {
	triples, err := s.AllTriples(ctx)
	if err != nil {
		return nil, err
	}
	return sparql.Select(triples, sparqlText)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.ReplaceAll(ctx, nil)
}

func (s *Store) AllTriples(ctx context.Context) ([]rdf.Triple, error) {
	it := s.handle.QuadsAllIterator()
	defer it.Close()

	var out []rdf.Triple
	for it.Next(ctx) {
		q := s.handle.Quad(it.Result())
		if t, ok := quadToTriple(q); ok {
			out = append(out, t)
		}
	}
	return out, it.Err()
}

func (s *Store) ReplaceAll(ctx context.Context, triples []rdf.Triple) error {
	existing, err := s.AllTriples(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		var quads []quad.Quad
		for _, t := range existing {
			quads = append(quads, tripleToQuad(t))
		}
		if err := s.handle.RemoveQuadSet(quads); err != nil {
			return fmt.Errorf("cayleystore: remove quads: %w", err)
		}
	}
	_, err = s.LoadRaw(ctx, triples)
	return err
}

// ApplyMutation matches memstore.Store's fast path, letting
// mutate.Mutator drive this backend identically.
func (s *Store) ApplyMutation(deletes, inserts []rdf.Triple) (deleted, inserted int) {
	ctx := context.Background()
	if len(deletes) > 0 {
		var quads []quad.Quad
		for _, t := range deletes {
			quads = append(quads, tripleToQuad(t))
		}
		if err := s.handle.RemoveQuadSet(quads); err == nil {
			deleted = len(quads)
		}
	}
	if len(inserts) > 0 {
		n, err := s.LoadRaw(ctx, inserts)
		if err == nil {
			inserted = n
		}
	}
	return deleted, inserted
}

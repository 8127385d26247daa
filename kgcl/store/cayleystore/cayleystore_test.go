package cayleystore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"eve.evalgo.org/kgcl/rdf"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.bolt")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadTurtleAndCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.LoadTurtle(ctx, `<http://example.org/a> <http://example.org/p> <http://example.org/b> .`)
	if err != nil {
		t.Fatalf("LoadTurtle: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 triple added, got %d", n)
	}

	count, err := s.TripleCount(ctx)
	if err != nil {
		t.Fatalf("TripleCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 triple, got %d", count)
	}
}

func TestLoadRawDedup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	triples := []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/a"), Predicate: rdf.IRI("http://example.org/p"), Object: rdf.IRI("http://example.org/b")},
	}
	if _, err := s.LoadRaw(ctx, triples); err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	n, err := s.LoadRaw(ctx, triples)
	if err != nil {
		t.Fatalf("LoadRaw (dup): %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 added on duplicate load, got %d", n)
	}
}

func TestDumpAndDumpTrig(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.LoadRaw(ctx, []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/a"), Predicate: rdf.IRI("http://example.org/p"), Object: rdf.IRI("http://example.org/b"), Graph: rdf.StateGraph},
	})

	turtle, err := s.Dump(ctx)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if turtle == "" {
		t.Error("expected non-empty Turtle dump")
	}

	trig, err := s.DumpTrig(ctx)
	if err != nil {
		t.Fatalf("DumpTrig: %v", err)
	}
	if !strings.Contains(trig, "GRAPH <"+rdf.StateGraph+">") {
		t.Errorf("expected TriG output scoped to StateGraph, got %q", trig)
	}
}

func TestQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.LoadRaw(ctx, []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/alice"), Predicate: rdf.IRI("http://example.org/knows"), Object: rdf.IRI("http://example.org/bob")},
	})

	bindings, err := s.Query(ctx, `SELECT ?o WHERE { <http://example.org/alice> <http://example.org/knows> ?o . }`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(bindings))
	}
}

func TestClearAndReplaceAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.LoadRaw(ctx, []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/a"), Predicate: rdf.IRI("http://example.org/p"), Object: rdf.IRI("http://example.org/b")},
	})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	count, err := s.TripleCount(ctx)
	if err != nil {
		t.Fatalf("TripleCount: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store after Clear, got %d", count)
	}

	replacement := []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/x"), Predicate: rdf.IRI("http://example.org/y"), Object: rdf.IRI("http://example.org/z")},
	}
	if err := s.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	count, err = s.TripleCount(ctx)
	if err != nil {
		t.Fatalf("TripleCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 triple after ReplaceAll, got %d", count)
	}
}

func TestApplyMutation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.LoadRaw(ctx, []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/task1"), Predicate: rdf.IRI("http://example.org/status"), Object: rdf.Literal("pending")},
	})

	deletes := []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/task1"), Predicate: rdf.IRI("http://example.org/status"), Object: rdf.Literal("pending")},
	}
	inserts := []rdf.Triple{
		{Subject: rdf.IRI("http://example.org/task1"), Predicate: rdf.IRI("http://example.org/status"), Object: rdf.Literal("active")},
	}
	deleted, inserted := s.ApplyMutation(deletes, inserts)
	if deleted != 1 || inserted != 1 {
		t.Fatalf("deleted=%d inserted=%d, want 1/1", deleted, inserted)
	}

	count, err := s.TripleCount(ctx)
	if err != nil {
		t.Fatalf("TripleCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 triple after mutation, got %d", count)
	}
}

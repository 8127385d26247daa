package mutate

import (
	"context"
	"testing"

	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/store/memstore"
)

func newFixture(ctx context.Context, t *testing.T) (*memstore.Store, *Mutator) {
	t.Helper()
	s := memstore.New()
	if _, err := s.LoadRaw(ctx, []rdf.Triple{
		{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("pending")},
		{Subject: rdf.IRI("counter1"), Predicate: rdf.IRI("value"), Object: rdf.Literal("3")},
	}); err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	return s, New(s, s, nil)
}

func TestApplyMutationDeleteInsert(t *testing.T) {
	ctx := context.Background()
	_, m := newFixture(ctx, t)

	mu := Mutation{
		DeletePatterns: []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("pending")}},
		InsertPatterns: []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("active")}},
		WherePatterns:  []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("pending")}},
		Description:    "activate task1",
	}
	result, err := m.ApplyMutation(ctx, mu)
	if err != nil {
		t.Fatalf("ApplyMutation: %v", err)
	}
	if !result.Success || result.MutationsApplied != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.TriplesDeleted != 1 || result.TriplesInserted != 1 {
		t.Errorf("deleted=%d inserted=%d", result.TriplesDeleted, result.TriplesInserted)
	}
}

func TestApplyMutationWithBind(t *testing.T) {
	ctx := context.Background()
	s, m := newFixture(ctx, t)

	mu := Mutation{
		DeletePatterns: []rdf.Triple{{Subject: rdf.IRI("counter1"), Predicate: rdf.IRI("value"), Object: rdf.Variable("old")}},
		InsertPatterns: []rdf.Triple{{Subject: rdf.IRI("counter1"), Predicate: rdf.IRI("value"), Object: rdf.Variable("new")}},
		WherePatterns:  []rdf.Triple{{Subject: rdf.IRI("counter1"), Predicate: rdf.IRI("value"), Object: rdf.Variable("old")}},
		Bindings:       map[string]string{"new": "BIND(?old + 1 AS ?new)"},
		Description:    "increment counter1",
	}
	result, err := m.ApplyMutation(ctx, mu)
	if err != nil {
		t.Fatalf("ApplyMutation: %v", err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}

	all, err := s.AllTriples(ctx)
	if err != nil {
		t.Fatalf("AllTriples: %v", err)
	}
	found := false
	for _, tr := range all {
		if tr.Subject.Value == "counter1" && tr.Predicate.Value == "value" {
			found = true
			if tr.Object.Value != "4" {
				t.Errorf("counter value = %q, want 4", tr.Object.Value)
			}
		}
	}
	if !found {
		t.Error("expected counter1 triple to survive mutation")
	}
}

func TestApplyMutationNoMatchIsNoop(t *testing.T) {
	ctx := context.Background()
	_, m := newFixture(ctx, t)

	mu := Mutation{
		DeletePatterns: []rdf.Triple{{Subject: rdf.IRI("missing"), Predicate: rdf.IRI("status"), Object: rdf.Literal("x")}},
		WherePatterns:  []rdf.Triple{{Subject: rdf.IRI("missing"), Predicate: rdf.IRI("status"), Object: rdf.Literal("x")}},
		Description:    "no-op",
	}
	result, err := m.ApplyMutation(ctx, mu)
	if err != nil {
		t.Fatalf("ApplyMutation: %v", err)
	}
	if result.MutationsApplied != 0 {
		t.Errorf("expected 0 mutations applied, got %d", result.MutationsApplied)
	}
}

func TestApplyMutationsRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s, m := newFixture(ctx, t)

	good := Mutation{
		DeletePatterns: []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("pending")}},
		InsertPatterns: []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("active")}},
		WherePatterns:  []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("pending")}},
		Description:    "good",
	}
	bad := Mutation{
		InsertPatterns: []rdf.Triple{{Subject: rdf.IRI("x"), Predicate: rdf.IRI("y"), Object: rdf.Variable("unbound")}},
		WherePatterns:  []rdf.Triple{{Subject: rdf.IRI("task1"), Predicate: rdf.IRI("status"), Object: rdf.Literal("active")}},
		Description:    "bad",
	}

	result, err := m.ApplyMutations(ctx, []Mutation{good, bad})
	if err == nil {
		t.Fatal("expected error from batch containing an unresolvable mutation")
	}
	if result.Success {
		t.Error("expected Success=false on rollback")
	}

	all, err := s.AllTriples(ctx)
	if err != nil {
		t.Fatalf("AllTriples: %v", err)
	}
	for _, tr := range all {
		if tr.Subject.Value == "task1" && tr.Predicate.Value == "status" {
			if tr.Object.Value != "pending" {
				t.Errorf("expected task1 status restored to pending after rollback, got %q", tr.Object.Value)
			}
		}
	}
}

func TestExecuteSPARQLUpdate(t *testing.T) {
	ctx := context.Background()
	_, m := newFixture(ctx, t)

	text := `DELETE { <task1> <status> "pending" . } ` +
		`INSERT { <task1> <status> "active" . } ` +
		`WHERE { <task1> <status> "pending" . }`

	result, err := m.ExecuteSPARQLUpdate(ctx, text)
	if err != nil {
		t.Fatalf("ExecuteSPARQLUpdate: %v", err)
	}
	if !result.Success || result.MutationsApplied != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestExecuteSPARQLUpdateMalformed(t *testing.T) {
	ctx := context.Background()
	_, m := newFixture(ctx, t)

	if _, err := m.ExecuteSPARQLUpdate(ctx, "garbage"); err == nil {
		t.Error("expected error for malformed SPARQL update text")
	}
}

func TestApplyMutationWithoutApplierFails(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s, nil, nil)

	_, err := m.ApplyMutation(ctx, Mutation{Description: "x"})
	if err == nil {
		t.Error("expected error when store has no ApplyMutation fast path")
	}
}

package sparql

import (
	"testing"

	"eve.evalgo.org/kgcl/rdf"
)

func TestParseUpdateDeleteInsertWhere(t *testing.T) {
	text := `DELETE { ?task <http://example.org/status> "pending" . } ` +
		`INSERT { ?task <http://example.org/status> "active" . } ` +
		`WHERE { ?task <http://example.org/status> "pending" . }`

	deletes, inserts, wheres, binds, err := ParseUpdate(text)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if len(deletes) != 1 || len(inserts) != 1 || len(wheres) != 1 {
		t.Fatalf("deletes=%d inserts=%d wheres=%d", len(deletes), len(inserts), len(wheres))
	}
	if len(binds) != 0 {
		t.Errorf("expected no binds, got %v", binds)
	}
	if deletes[0].Object.Value != "pending" {
		t.Errorf("delete object = %q", deletes[0].Object.Value)
	}
	if inserts[0].Object.Value != "active" {
		t.Errorf("insert object = %q", inserts[0].Object.Value)
	}
}

func TestParseUpdateWithBind(t *testing.T) {
	text := `DELETE { ?c <http://example.org/value> ?old . } ` +
		`INSERT { ?c <http://example.org/value> ?new . } ` +
		`WHERE { ?c <http://example.org/value> ?old . BIND(?old + 1 AS ?new) }`

	deletes, inserts, wheres, binds, err := ParseUpdate(text)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if len(deletes) != 1 || len(inserts) != 1 || len(wheres) != 1 {
		t.Fatalf("deletes=%d inserts=%d wheres=%d", len(deletes), len(inserts), len(wheres))
	}
	if len(binds) != 1 {
		t.Fatalf("expected 1 BIND clause, got %v", binds)
	}
}

func TestParseUpdateWhereOnly(t *testing.T) {
	text := `WHERE { ?s <http://example.org/p> ?o . }`
	deletes, inserts, wheres, _, err := ParseUpdate(text)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if deletes != nil || inserts != nil {
		t.Errorf("expected no delete/insert patterns, got %v / %v", deletes, inserts)
	}
	if len(wheres) != 1 {
		t.Errorf("expected 1 where pattern, got %d", len(wheres))
	}
}

func TestParseUpdateUnsupportedForm(t *testing.T) {
	if _, _, _, _, err := ParseUpdate("garbage"); err == nil {
		t.Error("expected error for unsupported UPDATE form")
	}
}

func TestSubstitute(t *testing.T) {
	pattern := rdf.Triple{
		Subject:   rdf.Variable("task"),
		Predicate: rdf.IRI("http://example.org/status"),
		Object:    rdf.Literal("active"),
	}
	sol := rdf.Binding{"task": "<http://example.org/task1>"}

	got, err := Substitute(pattern, sol)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got.Subject.Value != "http://example.org/task1" {
		t.Errorf("subject = %q", got.Subject.Value)
	}
	if got.Predicate.Value != "http://example.org/status" {
		t.Errorf("predicate = %q", got.Predicate.Value)
	}
	if got.Object.Value != "active" {
		t.Errorf("object = %q", got.Object.Value)
	}
}

func TestSubstituteUnboundVariable(t *testing.T) {
	pattern := rdf.Triple{
		Subject:   rdf.Variable("missing"),
		Predicate: rdf.IRI("http://example.org/p"),
		Object:    rdf.Literal("v"),
	}
	if _, err := Substitute(pattern, rdf.Binding{}); err == nil {
		t.Error("expected error substituting unbound variable")
	}
}

func TestSubstitutePreservesGraph(t *testing.T) {
	pattern := rdf.Triple{
		Subject:   rdf.IRI("http://example.org/s"),
		Predicate: rdf.IRI("http://example.org/p"),
		Object:    rdf.IRI("http://example.org/o"),
		Graph:     rdf.StateGraph,
	}
	got, err := Substitute(pattern, rdf.Binding{})
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got.Graph != rdf.StateGraph {
		t.Errorf("graph = %q, want %q", got.Graph, rdf.StateGraph)
	}
}

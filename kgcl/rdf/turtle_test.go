package rdf

import (
	"strings"
	"testing"
)

func TestDecodeTurtleRoundTrip(t *testing.T) {
	input := `<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .`
	triples, err := DecodeTurtle(input, DefaultGraph)
	if err != nil {
		t.Fatalf("DecodeTurtle: %v", err)
	}
	if len(triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(triples))
	}
	got := triples[0]
	if got.Subject.Value != "http://example.org/alice" {
		t.Errorf("subject = %q", got.Subject.Value)
	}
	if got.Object.Value != "http://example.org/bob" {
		t.Errorf("object = %q", got.Object.Value)
	}

	out, err := EncodeTurtle(triples)
	if err != nil {
		t.Fatalf("EncodeTurtle: %v", err)
	}
	reparsed, err := DecodeTurtle(out, DefaultGraph)
	if err != nil {
		t.Fatalf("DecodeTurtle(EncodeTurtle(...)): %v", err)
	}
	if len(reparsed) != 1 || !reparsed[0].Equal(got) {
		t.Errorf("round trip mismatch: got %+v, want %+v", reparsed, triples)
	}
}

func TestDecodeTurtleMalformed(t *testing.T) {
	if _, err := DecodeTurtle("this is not turtle {{{", DefaultGraph); err == nil {
		t.Error("expected an error decoding malformed Turtle")
	}
}

func TestEncodeTrigNamedGraph(t *testing.T) {
	triples := []Triple{
		{Subject: IRI("http://example.org/a"), Predicate: IRI("http://example.org/p"), Object: IRI("http://example.org/b"), Graph: StateGraph},
	}
	out, err := EncodeTrig(triples)
	if err != nil {
		t.Fatalf("EncodeTrig: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty TriG output")
	}
	if want := "GRAPH <" + StateGraph + ">"; !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got %q", want, out)
	}
}

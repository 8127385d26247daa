package rdf

import "testing"

func TestTripleKeyStability(t *testing.T) {
	a := Triple{Subject: IRI("s"), Predicate: IRI("p"), Object: IRI("o")}
	b := Triple{Subject: IRI("s"), Predicate: IRI("p"), Object: IRI("o")}
	if a.Key() != b.Key() {
		t.Error("identical triples must produce identical keys")
	}

	c := Triple{Subject: IRI("s"), Predicate: IRI("p"), Object: IRI("o"), Graph: StateGraph}
	if a.Key() == c.Key() {
		t.Error("triples differing only by graph must produce different keys")
	}
}

func TestTripleEqual(t *testing.T) {
	a := Triple{Subject: IRI("s"), Predicate: IRI("p"), Object: Literal("o")}
	b := Triple{Subject: IRI("s"), Predicate: IRI("p"), Object: Literal("o")}
	if !a.Equal(b) {
		t.Error("expected value-equal triples to be Equal")
	}
}

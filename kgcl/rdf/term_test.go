package rdf

import "testing"

func TestTermString(t *testing.T) {
	cases := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI("http://example.org/a"), "<http://example.org/a>"},
		{"blank", Blank("b0"), "_:b0"},
		{"variable", Variable("x"), "?x"},
		{"plain literal", Literal("hello"), `"hello"`},
		{"typed literal", TypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"lang literal", LangLiteral("bonjour", "fr"), `"bonjour"@fr`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.term.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTermEqual(t *testing.T) {
	a := IRI("http://example.org/a")
	b := IRI("http://example.org/a")
	c := IRI("http://example.org/b")
	if !a.Equal(b) {
		t.Error("expected equal IRIs to be Equal")
	}
	if a.Equal(c) {
		t.Error("expected different IRIs to not be Equal")
	}
	if IRI("x").Equal(Blank("x")) {
		t.Error("different kinds with same value must not be Equal")
	}
}

func TestIsVariable(t *testing.T) {
	if !Variable("x").IsVariable() {
		t.Error("Variable should report IsVariable true")
	}
	if IRI("x").IsVariable() {
		t.Error("IRI should report IsVariable false")
	}
}

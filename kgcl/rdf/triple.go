package rdf

// DefaultGraph is the empty graph name used for triples not placed in
// a named graph.
const DefaultGraph = ""

// StateGraph is the named graph holding current workflow state when
// state/event separation is in use.
const StateGraph = "urn:kgcl:state"

// EventsGraph is the named graph holding the append-only event log
// when the store is used to materialize it directly.
const EventsGraph = "urn:kgcl:events"

// Triple is an ordered (subject, predicate, object) tuple, optionally
// scoped to a named graph. Triples are value-equal; duplicates are
// idempotent in a Store.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     string // DefaultGraph unless placed in a named graph
}

// Equal reports whether two triples are value-equal, including graph.
func (t Triple) Equal(o Triple) bool {
	return t.Subject.Equal(o.Subject) && t.Predicate.Equal(o.Predicate) &&
		t.Object.Equal(o.Object) && t.Graph == o.Graph
}

// Key returns a stable string key suitable for set membership in a
// map-backed store.
func (t Triple) Key() string {
	return t.Graph + "\x00" + t.Subject.String() + "\x00" + t.Predicate.String() + "\x00" + t.Object.String()
}

// TriplePattern is a Triple whose terms may be variables, used by
// mutation where/delete/insert clauses and SPARQL BGP matching.
type TriplePattern = Triple

// Binding is a single solution row: a map from SPARQL variable name
// (without leading '?') to the bound term's surface string.
type Binding map[string]string

package rdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	knakk "github.com/knakk/rdf"
)

// DecodeTurtle parses a Turtle document into engine triples, all
// placed in the given graph (DefaultGraph for untagged documents).
// On malformed input it returns the partial result discarded and an
// error; the caller (store.LoadTurtle) is responsible for leaving its
// own state unchanged on failure.
func DecodeTurtle(text string, graph string) ([]Triple, error) {
	return decodeWith(text, knakk.Turtle, graph)
}

// DecodeNTriples parses an N-Triples document, used for reasoner
// output that is not in full N3 form.
func DecodeNTriples(text string, graph string) ([]Triple, error) {
	return decodeWith(text, knakk.NTriples, graph)
}

func decodeWith(text string, format knakk.Format, graph string) ([]Triple, error) {
	dec := knakk.NewTripleDecoder(strings.NewReader(text), format)
	raw, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", format, err)
	}
	out := make([]Triple, 0, len(raw))
	for _, kt := range raw {
		out = append(out, Triple{
			Subject:   fromKnakkTerm(kt.Subj),
			Predicate: fromKnakkTerm(kt.Pred),
			Object:    fromKnakkTerm(kt.Obj),
			Graph:     graph,
		})
	}
	return out, nil
}

func fromKnakkTerm(t knakk.Term) Term {
	switch v := t.(type) {
	case knakk.IRI:
		return IRI(v.String())
	case knakk.Blank:
		return Blank(v.String())
	case knakk.Literal:
		lit := Term{Kind: KindLiteral, Value: v.String()}
		if dt := v.DataType(); dt.String() != "" {
			lit.Datatype = dt.String()
		}
		if lang := v.Lang(); lang != "" {
			lit.Lang = lang
		}
		return lit
	default:
		return Literal(fmt.Sprintf("%v", t))
	}
}

func toKnakkTerm(t Term) (knakk.Term, error) {
	switch t.Kind {
	case KindIRI:
		return knakk.NewIRI(t.Value)
	case KindBlank:
		return knakk.NewBlank(t.Value)
	case KindLiteral:
		switch {
		case t.Datatype != "":
			dt, err := knakk.NewIRI(t.Datatype)
			if err != nil {
				return nil, err
			}
			return knakk.NewTypedLiteral(t.Value, dt)
		case t.Lang != "":
			return knakk.NewLangLiteral(t.Value, t.Lang)
		default:
			return knakk.NewLiteral(t.Value)
		}
	default:
		return nil, fmt.Errorf("cannot serialize variable term %q to RDF", t.Value)
	}
}

// EncodeTurtle serializes triples (ignoring graph tags, since Turtle
// has no named-graph notion) as a single Turtle document.
func EncodeTurtle(triples []Triple) (string, error) {
	var buf bytes.Buffer
	enc := knakk.NewTripleEncoder(&buf, knakk.Turtle)
	for _, t := range triples {
		s, err := toKnakkTerm(t.Subject)
		if err != nil {
			return "", err
		}
		p, err := toKnakkTerm(t.Predicate)
		if err != nil {
			return "", err
		}
		o, err := toKnakkTerm(t.Object)
		if err != nil {
			return "", err
		}
		subj, ok := s.(knakk.Subject)
		if !ok {
			return "", fmt.Errorf("term %v cannot be used as subject", t.Subject)
		}
		pred, ok := p.(knakk.Predicate)
		if !ok {
			return "", fmt.Errorf("term %v cannot be used as predicate", t.Predicate)
		}
		obj, ok := o.(knakk.Object)
		if !ok {
			return "", fmt.Errorf("term %v cannot be used as object", t.Object)
		}
		if err := enc.Encode(knakk.Triple{Subj: subj, Pred: pred, Obj: obj}); err != nil {
			return "", err
		}
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EncodeTrig serializes triples grouped by graph into a TriG-flavored
// text. knakk/rdf has no TriG encoder, so named graphs are flattened
// into `GRAPH <iri> { ... }` wrapper blocks around per-graph Turtle,
// which N3 reasoners accept as quad-like input; this is the only
// place the module produces non-canonical syntax, and only as
// reasoner input, never as a stored serialization.
func EncodeTrig(triples []Triple) (string, error) {
	byGraph := map[string][]Triple{}
	var order []string
	for _, t := range triples {
		if _, ok := byGraph[t.Graph]; !ok {
			order = append(order, t.Graph)
		}
		byGraph[t.Graph] = append(byGraph[t.Graph], t)
	}
	var out strings.Builder
	for _, g := range order {
		body, err := EncodeTurtle(byGraph[g])
		if err != nil {
			return "", err
		}
		if g == DefaultGraph {
			out.WriteString(body)
			continue
		}
		fmt.Fprintf(&out, "GRAPH <%s> {\n%s}\n", g, body)
	}
	return out.String(), nil
}

// ReadAll is a convenience wrapper for tests that want to decode from
// an io.Reader directly rather than a string.
func ReadAll(r io.Reader, format knakk.Format, graph string) ([]Triple, error) {
	dec := knakk.NewTripleDecoder(r, format)
	raw, err := dec.DecodeAll()
	if err != nil {
		return nil, err
	}
	out := make([]Triple, 0, len(raw))
	for _, kt := range raw {
		out = append(out, Triple{
			Subject:   fromKnakkTerm(kt.Subj),
			Predicate: fromKnakkTerm(kt.Pred),
			Object:    fromKnakkTerm(kt.Obj),
			Graph:     graph,
		})
	}
	return out, nil
}

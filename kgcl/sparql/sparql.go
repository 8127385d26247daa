// Package sparql implements the narrow SPARQL subset the engine
// itself emits and consumes: basic graph pattern (BGP) matching for
// SELECT/ASK queries, and the exact DELETE/INSERT/WHERE/BIND grammar
// produced by mutate.Mutation.ToSPARQL. No example repo in the
// retrieved corpus vendors or implements a general SPARQL engine in
// Go (GraphDB/RDF4J/PoolParty clients only forward SPARQL text to a
// remote server over HTTP); this package exists only because nothing
// in the corpus can be reused for in-process SPARQL evaluation, and is
// scoped to exactly the grammar described in SPEC_FULL.md's DOMAIN
// STACK section, not general SPARQL 1.1.
package sparql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"eve.evalgo.org/kgcl/rdf"
)

// Select parses and evaluates a SPARQL SELECT query against the given
// triple set. GRAPH <iri> { ... } blocks restrict matching to that
// graph; patterns outside a GRAPH block match the default graph.
func Select(data []rdf.Triple, query string) ([]rdf.Binding, error) {
	_, patterns, err := ParseSelect(query)
	if err != nil {
		return nil, err
	}
	return Match(data, patterns), nil
}

var (
	selectRe    = regexp.MustCompile(`(?is)^\s*SELECT\s+(.*?)\s+WHERE\s*\{(.*)\}\s*$`)
	graphRe     = regexp.MustCompile(`(?is)GRAPH\s*<([^>]*)>\s*\{([^}]*)\}`)
	tripleRe    = regexp.MustCompile(`(?s)\s*\.\s*`)
	termTokenRe = regexp.MustCompile(`^\s*(\S+)\s+(\S+)\s+(.+?)\s*$`)
)

// ParseSelect extracts the projected variable list (unused by Match,
// which always returns every bound variable) and the BGP pattern
// list from a SPARQL SELECT query.
func ParseSelect(query string) (vars []string, patterns []rdf.Triple, err error) {
	m := selectRe.FindStringSubmatch(query)
	if m == nil {
		return nil, nil, fmt.Errorf("sparql: unsupported SELECT form")
	}
	for _, v := range strings.Fields(m[1]) {
		vars = append(vars, strings.TrimPrefix(v, "?"))
	}
	body := m[2]
	patterns, err = parseWhereBody(body)
	return vars, patterns, err
}

func parseWhereBody(body string) ([]rdf.Triple, error) {
	var patterns []rdf.Triple
	remaining := body
	for {
		gm := graphRe.FindStringSubmatchIndex(remaining)
		if gm == nil {
			break
		}
		before := remaining[:gm[0]]
		graphIRI := remaining[gm[2]:gm[3]]
		inner := remaining[gm[4]:gm[5]]
		after := remaining[gm[1]:]

		ps, err := parseTriplesBlock(before, rdf.DefaultGraph)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, ps...)

		ps, err = parseTriplesBlock(inner, graphIRI)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, ps...)

		remaining = after
	}
	ps, err := parseTriplesBlock(remaining, rdf.DefaultGraph)
	if err != nil {
		return nil, err
	}
	return append(patterns, ps...), nil
}

func parseTriplesBlock(block, graph string) ([]rdf.Triple, error) {
	var out []rdf.Triple
	for _, stmt := range tripleRe.Split(strings.TrimSpace(block), -1) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		m := termTokenRe.FindStringSubmatch(stmt)
		if m == nil {
			return nil, fmt.Errorf("sparql: malformed triple pattern %q", stmt)
		}
		s, err := ParseTerm(m[1])
		if err != nil {
			return nil, err
		}
		p, err := ParseTerm(m[2])
		if err != nil {
			return nil, err
		}
		o, err := ParseTerm(m[3])
		if err != nil {
			return nil, err
		}
		out = append(out, rdf.Triple{Subject: s, Predicate: p, Object: o, Graph: graph})
	}
	return out, nil
}

// ParseTerm parses a single SPARQL/Turtle term token: a bracketed
// IRI, a variable, a blank node, or a literal (plain, typed, or
// language-tagged).
func ParseTerm(tok string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(tok, "?") || strings.HasPrefix(tok, "$"):
		return rdf.Variable(tok[1:]), nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		return rdf.IRI(tok[1 : len(tok)-1]), nil
	case strings.HasPrefix(tok, "_:"):
		return rdf.Blank(tok[2:]), nil
	case strings.HasPrefix(tok, `"`):
		return parseLiteralToken(tok)
	default:
		return rdf.Term{}, fmt.Errorf("sparql: unrecognized term %q", tok)
	}
}

func parseLiteralToken(tok string) (rdf.Term, error) {
	end := strings.LastIndex(tok, `"`)
	if end <= 0 {
		return rdf.Term{}, fmt.Errorf("sparql: malformed literal %q", tok)
	}
	value := tok[1:end]
	suffix := tok[end+1:]
	switch {
	case strings.HasPrefix(suffix, "^^<") && strings.HasSuffix(suffix, ">"):
		return rdf.TypedLiteral(value, suffix[3:len(suffix)-1]), nil
	case strings.HasPrefix(suffix, "@"):
		return rdf.LangLiteral(value, suffix[1:]), nil
	default:
		return rdf.Literal(value), nil
	}
}

// Match evaluates a basic graph pattern against a triple set using an
// incremental nested-loop join, returning one Binding per solution.
func Match(data []rdf.Triple, patterns []rdf.Triple) []rdf.Binding {
	solutions := []rdf.Binding{{}}
	for _, pattern := range patterns {
		var next []rdf.Binding
		for _, sol := range solutions {
			for _, t := range data {
				if pattern.Graph != rdf.DefaultGraph && t.Graph != pattern.Graph {
					continue
				}
				if pattern.Graph == rdf.DefaultGraph && t.Graph != rdf.DefaultGraph {
					continue
				}
				candidate, ok := extend(sol, pattern.Subject, t.Subject)
				if !ok {
					continue
				}
				candidate, ok = extend(candidate, pattern.Predicate, t.Predicate)
				if !ok {
					continue
				}
				candidate, ok = extend(candidate, pattern.Object, t.Object)
				if !ok {
					continue
				}
				next = append(next, candidate)
			}
		}
		solutions = next
		if len(solutions) == 0 {
			return nil
		}
	}
	return solutions
}

func extend(sol rdf.Binding, pat, actual rdf.Term) (rdf.Binding, bool) {
	if !pat.IsVariable() {
		if !pat.Equal(actual) {
			return nil, false
		}
		return sol, true
	}
	if bound, ok := sol[pat.Value]; ok {
		if bound != actual.String() {
			return nil, false
		}
		return sol, true
	}
	out := make(rdf.Binding, len(sol)+1)
	for k, v := range sol {
		out[k] = v
	}
	out[pat.Value] = actual.String()
	return out, true
}

// EvalBind evaluates a single "BIND(<expr> AS ?var)" clause against a
// binding, returning the variable name and its new string value.
// Supported expressions: a bound variable, an integer literal, or
// "<var-or-int> <+|-> <var-or-int>" arithmetic, matching the only
// shape mutate.Mutation ever emits (counter increment/decrement).
var bindRe = regexp.MustCompile(`(?is)^\s*BIND\s*\((.+?)\s+AS\s+\?(\w+)\)\s*$`)

func EvalBind(expr string, sol rdf.Binding) (varName, value string, err error) {
	m := bindRe.FindStringSubmatch(expr)
	if m == nil {
		return "", "", fmt.Errorf("sparql: unsupported BIND expression %q", expr)
	}
	varName = m[2]
	value, err = evalArith(strings.TrimSpace(m[1]), sol)
	return varName, value, err
}

func evalArith(expr string, sol rdf.Binding) (string, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 1:
		return resolveOperand(fields[0], sol)
	case 3:
		left, err := resolveOperand(fields[0], sol)
		if err != nil {
			return "", err
		}
		right, err := resolveOperand(fields[2], sol)
		if err != nil {
			return "", err
		}
		li, err1 := strconv.Atoi(left)
		ri, err2 := strconv.Atoi(right)
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("sparql: non-numeric operands in %q", expr)
		}
		switch fields[1] {
		case "+":
			return strconv.Itoa(li + ri), nil
		case "-":
			return strconv.Itoa(li - ri), nil
		default:
			return "", fmt.Errorf("sparql: unsupported operator %q", fields[1])
		}
	default:
		return "", fmt.Errorf("sparql: unsupported expression %q", expr)
	}
}

func resolveOperand(tok string, sol rdf.Binding) (string, error) {
	if strings.HasPrefix(tok, "?") {
		v, ok := sol[tok[1:]]
		if !ok {
			return "", fmt.Errorf("sparql: unbound variable %s", tok)
		}
		return v, nil
	}
	return tok, nil
}

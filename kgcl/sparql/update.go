package sparql

import (
	"fmt"
	"regexp"
	"strings"

	"eve.evalgo.org/kgcl/rdf"
)

var updateRe = regexp.MustCompile(`(?is)^\s*(?:DELETE\s*\{(.*?)\}\s*)?(?:INSERT\s*\{(.*?)\}\s*)?WHERE\s*\{(.*)\}\s*$`)

// ParseUpdate parses the exact DELETE/INSERT/WHERE grammar mutate
// emits: optional DELETE block, optional INSERT block, mandatory
// WHERE block containing triple patterns and/or BIND(...) clauses.
func ParseUpdate(text string) (deletePatterns, insertPatterns, wherePatterns []rdf.Triple, binds []string, err error) {
	m := updateRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, nil, nil, fmt.Errorf("sparql: unsupported UPDATE form")
	}
	if strings.TrimSpace(m[1]) != "" {
		deletePatterns, err = parseTriplesBlock(m[1], rdf.DefaultGraph)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if strings.TrimSpace(m[2]) != "" {
		insertPatterns, err = parseTriplesBlock(m[2], rdf.DefaultGraph)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	whereBody := m[3]
	for _, stmt := range tripleRe.Split(strings.TrimSpace(whereBody), -1) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(stmt), "BIND") {
			binds = append(binds, stmt)
			continue
		}
		ps, perr := parseTriplesBlock(stmt, rdf.DefaultGraph)
		if perr != nil {
			return nil, nil, nil, nil, perr
		}
		wherePatterns = append(wherePatterns, ps...)
	}
	return deletePatterns, insertPatterns, wherePatterns, binds, nil
}

// Substitute replaces every variable term in pattern with its bound
// value from sol, returning an error if a variable is unbound.
func Substitute(pattern rdf.Triple, sol rdf.Binding) (rdf.Triple, error) {
	s, err := substituteTerm(pattern.Subject, sol)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := substituteTerm(pattern.Predicate, sol)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := substituteTerm(pattern.Object, sol)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subject: s, Predicate: p, Object: o, Graph: pattern.Graph}, nil
}

func substituteTerm(t rdf.Term, sol rdf.Binding) (rdf.Term, error) {
	if !t.IsVariable() {
		return t, nil
	}
	bound, ok := sol[t.Value]
	if !ok {
		return rdf.Term{}, fmt.Errorf("sparql: unbound variable ?%s", t.Value)
	}
	return ParseTerm(bound)
}

// Package shacl implements the closed-world Validator port (C4).
// Grounded on
// _examples/original_source/src/kgcl/hybrid/ports/validator_port.py's
// WORKFLOW_SHAPES catalogue and ValidationResult/ValidationViolation
// dataclasses. A full SHACL engine is out of scope for the same
// reason a full SPARQL engine is (nothing in the retrieved corpus
// implements or vendors one); this package evaluates exactly the four
// shape families the default workflow shape set requires, expressed
// as Go predicates over sparql.Match results rather than a general
// SHACL shapes-graph interpreter.
package shacl

import (
	"context"
	"fmt"

	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/sparql"
)

// Severity mirrors SPEC_FULL.md §3's ValidationSeverity.
type Severity int

const (
	Info Severity = iota
	Warning
	Violation
)

// Violation is a single constraint failure.
type Violation struct {
	FocusNode  string
	Constraint string
	Message    string
	Severity   Severity
	Path       string
	Shape      string
	Value      string
}

// Result is the outcome of validating a data graph against shapes.
type Result struct {
	Conforms            bool
	Violations          []Violation
	ShapesEvaluated     int
	FocusNodesValidated int
}

// ViolationCount returns the number of VIOLATION-severity findings.
func (r Result) ViolationCount() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == Violation {
			n++
		}
	}
	return n
}

const (
	statusPredicate    = "https://kgc.org/ns/status"
	counterPredicate   = "https://kgc.org/ns/instanceCount"
	xorBranchPredicate = "https://kgc.org/ns/xorBranchSelected"
	flowsIntoPredicate = "http://www.yawlfoundation.org/yawlschema#flowsInto"
	nextElementPred    = "http://www.yawlfoundation.org/yawlschema#nextElementRef"
	taskType           = "http://www.yawlfoundation.org/yawlschema#Task"
	rdfType            = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// DefaultShapeNames enumerates the default workflow shape set
// required by SPEC_FULL.md §4.4.
var DefaultShapeNames = []string{
	"TaskStatusShape",
	"CounterShape",
	"XORSplitShape",
	"FlowShape",
}

// Validator evaluates the default (or a caller-supplied, currently
// unused) shape set against a triple set.
type Validator struct{}

// New constructs the default workflow Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) Validate(ctx context.Context, triples []rdf.Triple) (Result, error) {
	var violations []Violation
	focusNodes := map[string]bool{}

	for _, v := range taskStatusViolations(triples) {
		violations = append(violations, v)
		focusNodes[v.FocusNode] = true
	}
	for _, v := range counterViolations(triples) {
		violations = append(violations, v)
		focusNodes[v.FocusNode] = true
	}
	for _, v := range xorSplitViolations(triples) {
		violations = append(violations, v)
		focusNodes[v.FocusNode] = true
	}
	for _, v := range flowViolations(triples) {
		violations = append(violations, v)
		focusNodes[v.FocusNode] = true
	}

	conforms := true
	for _, v := range violations {
		if v.Severity == Violation {
			conforms = false
			break
		}
	}
	return Result{
		Conforms:            conforms,
		Violations:          violations,
		ShapesEvaluated:     len(DefaultShapeNames),
		FocusNodesValidated: len(focusNodes),
	}, nil
}

// ValidatePreconditions and ValidatePostconditions are contract
// aliases for Validate; they differ only in when the engine invokes
// them, per SPEC_FULL.md §4.4.
func (v *Validator) ValidatePreconditions(ctx context.Context, triples []rdf.Triple) (Result, error) {
	return v.Validate(ctx, triples)
}

func (v *Validator) ValidatePostconditions(ctx context.Context, triples []rdf.Triple) (Result, error) {
	return v.Validate(ctx, triples)
}

func (v *Validator) GetShapes() []string { return DefaultShapeNames }

// taskStatusViolations enforces "exactly one status" for yawl:Task
// typed nodes — the functional-property check N3's open-world
// semantics can never express.
func taskStatusViolations(triples []rdf.Triple) []Violation {
	tasks := nodesOfType(triples, taskType)
	var out []Violation
	for _, task := range tasks {
		count := countPredicate(triples, task, statusPredicate)
		if count != 1 {
			out = append(out, Violation{
				FocusNode:  task,
				Constraint: "sh:minCount 1, sh:maxCount 1",
				Message:    fmt.Sprintf("task %s must have exactly one status, has %d", task, count),
				Severity:   Violation,
				Path:       statusPredicate,
				Shape:      "TaskStatusShape",
			})
		}
	}
	return out
}

// counterViolations enforces "at most one value" for counter
// properties.
func counterViolations(triples []rdf.Triple) []Violation {
	subjects := subjectsOfPredicate(triples, counterPredicate)
	var out []Violation
	for _, s := range subjects {
		count := countPredicate(triples, s, counterPredicate)
		if count > 1 {
			out = append(out, Violation{
				FocusNode:  s,
				Constraint: "sh:maxCount 1",
				Message:    fmt.Sprintf("counter on %s must have at most one value, has %d", s, count),
				Severity:   Violation,
				Path:       counterPredicate,
				Shape:      "CounterShape",
			})
		}
	}
	return out
}

// xorSplitViolations enforces "at most one active branch" for XOR
// split nodes reachable via yawl:flowsInto/yawl:nextElementRef.
func xorSplitViolations(triples []rdf.Triple) []Violation {
	splits := subjectsOfPredicate(triples, flowsIntoPredicate)
	var out []Violation
	for _, split := range splits {
		active := 0
		for _, flow := range objectsOf(triples, split, flowsIntoPredicate) {
			for _, branch := range objectsOf(triples, flow, nextElementPred) {
				for _, status := range objectsOf(triples, branch, statusPredicate) {
					if status == "Active" {
						active++
					}
				}
			}
		}
		if active > 1 {
			out = append(out, Violation{
				FocusNode:  split,
				Constraint: "sh:sparql (at most one active branch)",
				Message:    fmt.Sprintf("split %s has %d active branches", split, active),
				Severity:   Violation,
				Shape:      "XORSplitShape",
			})
		}
	}
	return out
}

// flowViolations enforces "exactly one next element" for yawl:Flow
// typed nodes.
func flowViolations(triples []rdf.Triple) []Violation {
	flows := nodesOfType(triples, "http://www.yawlfoundation.org/yawlschema#Flow")
	var out []Violation
	for _, flow := range flows {
		count := countPredicate(triples, flow, nextElementPred)
		if count != 1 {
			out = append(out, Violation{
				FocusNode:  flow,
				Constraint: "sh:minCount 1, sh:maxCount 1",
				Message:    fmt.Sprintf("flow %s must reference exactly one next element, has %d", flow, count),
				Severity:   Violation,
				Path:       nextElementPred,
				Shape:      "FlowShape",
			})
		}
	}
	return out
}

func nodesOfType(triples []rdf.Triple, typeIRI string) []string {
	pattern := []rdf.Triple{{
		Subject:   rdf.Variable("s"),
		Predicate: rdf.IRI(rdfType),
		Object:    rdf.IRI(typeIRI),
	}}
	var out []string
	for _, sol := range sparql.Match(triples, pattern) {
		out = append(out, stripIRI(sol["s"]))
	}
	return out
}

func subjectsOfPredicate(triples []rdf.Triple, predIRI string) []string {
	pattern := []rdf.Triple{{
		Subject:   rdf.Variable("s"),
		Predicate: rdf.IRI(predIRI),
		Object:    rdf.Variable("o"),
	}}
	seen := map[string]bool{}
	var out []string
	for _, sol := range sparql.Match(triples, pattern) {
		s := stripIRI(sol["s"])
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func objectsOf(triples []rdf.Triple, subjectIRI, predIRI string) []string {
	pattern := []rdf.Triple{{
		Subject:   rdf.IRI(subjectIRI),
		Predicate: rdf.IRI(predIRI),
		Object:    rdf.Variable("o"),
	}}
	var out []string
	for _, sol := range sparql.Match(triples, pattern) {
		out = append(out, stripIRI(sol["o"]))
	}
	return out
}

func countPredicate(triples []rdf.Triple, subjectIRI, predIRI string) int {
	return len(objectsOf(triples, subjectIRI, predIRI))
}

// stripIRI strips the <> or "" wrapping sparql.Match leaves on bound
// values so shape logic can compare against plain strings.
func stripIRI(v string) string {
	if len(v) >= 2 && v[0] == '<' && v[len(v)-1] == '>' {
		return v[1 : len(v)-1]
	}
	if len(v) >= 2 && v[0] == '"' {
		if end := len(v) - 1; v[end] == '"' {
			return v[1:end]
		}
		// may have a ^^<dt> or @lang suffix
		if i := indexByte(v, '"', 1); i > 0 {
			return v[1:i]
		}
	}
	return v
}

func indexByte(s string, b byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// Package eventlog implements the optional append-only Event Log
// (C9): a totally-ordered, replayable record of state-changing
// occurrences, supplementing the core spec with the time-travel
// capability sketched in
// _examples/original_source/src/kgcl/projection/adapters/event_store_adapter.py
// (graph_id scoping, query-against-a-graph) and the
// DomainEvent(event_id, event_type, timestamp, sequence, payload)
// shape shown in that file's doctest. Grounded structurally on
// semantic/runtime/event.go and event_store.go's NewEvent/EventStore
// pattern, retargeted from Schema.org Events to the tick/mutation
// taxonomy this engine actually emits.
package eventlog

import (
	"context"
	"time"

	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/sparql"

	"github.com/google/uuid"
)

// Type enumerates the kinds of occurrence the log records.
type Type string

const (
	TickStart           Type = "TICK_START"
	TickEnd             Type = "TICK_END"
	TripleAdded         Type = "TRIPLE_ADDED"
	TripleRemoved       Type = "TRIPLE_REMOVED"
	TransactionBegin    Type = "TRANSACTION_BEGIN"
	TransactionCommit   Type = "TRANSACTION_COMMIT"
	TransactionRollback Type = "TRANSACTION_ROLLBACK"
	ValidationFailure   Type = "VALIDATION_FAILURE"
	StatusChange        Type = "STATUS_CHANGE"
)

// Event is one entry in the append-only log.
type Event struct {
	EventID   string
	EventType Type
	Timestamp time.Time
	Sequence  int64
	GraphID   string
	Payload   map[string]interface{}
}

// NewEvent stamps a new Event with a generated ID and current time;
// Sequence is assigned by the Store on Append, not here, since only
// the store can guarantee total order under concurrent writers.
func NewEvent(eventType Type, graphID string, payload map[string]interface{}) Event {
	return Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
		GraphID:   graphID,
		Payload:   payload,
	}
}

// TripleAddedPayload and TripleRemovedPayload are the conventional
// Payload shapes for their respective event types.
func TripleAddedPayload(t rdf.Triple) map[string]interface{} {
	return map[string]interface{}{
		"subject":   t.Subject.String(),
		"predicate": t.Predicate.String(),
		"object":    t.Object.String(),
		"graph":     t.Graph,
	}
}

func TripleRemovedPayload(t rdf.Triple) map[string]interface{} {
	return TripleAddedPayload(t)
}

// Store is the append-only event log port.
type Store interface {
	// Append assigns the next sequence number and persists e.
	Append(ctx context.Context, e Event) (Event, error)

	// Replay returns every event in sequence order, optionally
	// filtered to a graph.
	Replay(ctx context.Context, graphID string) ([]Event, error)

	// ByType returns events of a given type in sequence order.
	ByType(ctx context.Context, eventType Type, limit, offset int) ([]Event, error)

	// StateAt reconstructs the triple set for graphID as of (and
	// including) sequence seq, by replaying TRIPLE_ADDED/TRIPLE_REMOVED
	// events in order. This is the time-travel operation
	// event_store_adapter.py's query() method hints at but does not
	// itself implement.
	StateAt(ctx context.Context, graphID string, seq int64) ([]rdf.Triple, error)
}

// Replay reconstructs a triple set by folding TRIPLE_ADDED/REMOVED
// events from events, in order, up to and including maxSeq (or all of
// them if maxSeq < 0). This is the pure logic StateAt delegates to;
// exported so in-memory and adapter Store implementations share it.
func Replay(events []Event, maxSeq int64) []rdf.Triple {
	state := make(map[string]rdf.Triple)
	for _, e := range events {
		if maxSeq >= 0 && e.Sequence > maxSeq {
			break
		}
		switch e.EventType {
		case TripleAdded:
			t, ok := tripleFromPayload(e.Payload)
			if ok {
				state[t.Key()] = t
			}
		case TripleRemoved:
			t, ok := tripleFromPayload(e.Payload)
			if ok {
				delete(state, t.Key())
			}
		}
	}
	out := make([]rdf.Triple, 0, len(state))
	for _, t := range state {
		out = append(out, t)
	}
	return out
}

func tripleFromPayload(p map[string]interface{}) (rdf.Triple, bool) {
	s, ok1 := p["subject"].(string)
	pr, ok2 := p["predicate"].(string)
	o, ok3 := p["object"].(string)
	g, _ := p["graph"].(string)
	if !ok1 || !ok2 || !ok3 {
		return rdf.Triple{}, false
	}
	st, err1 := sparql.ParseTerm(s)
	pt, err2 := sparql.ParseTerm(pr)
	ot, err3 := sparql.ParseTerm(o)
	if err1 != nil || err2 != nil || err3 != nil {
		return rdf.Triple{}, false
	}
	return rdf.Triple{Subject: st, Predicate: pt, Object: ot, Graph: g}, true
}

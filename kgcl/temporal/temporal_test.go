package temporal

import (
	"context"
	"testing"

	"eve.evalgo.org/kgcl/eventlog"
	"eve.evalgo.org/kgcl/rdf"
)

type fakeEventStore struct {
	events []eventlog.Event
	seq    int64
}

func (f *fakeEventStore) Append(ctx context.Context, e eventlog.Event) (eventlog.Event, error) {
	f.seq++
	e.Sequence = f.seq
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeEventStore) Replay(ctx context.Context, graphID string) ([]eventlog.Event, error) {
	var out []eventlog.Event
	for _, e := range f.events {
		if graphID == "" || e.GraphID == graphID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ByType(ctx context.Context, t eventlog.Type, limit, offset int) ([]eventlog.Event, error) {
	var out []eventlog.Event
	for _, e := range f.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) StateAt(ctx context.Context, graphID string, seq int64) ([]rdf.Triple, error) {
	events, err := f.Replay(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return eventlog.Replay(events, seq), nil
}

func triple(s, p, o string) rdf.Triple {
	return rdf.Triple{Subject: rdf.IRI(s), Predicate: rdf.IRI(p), Object: rdf.Literal(o)}
}

func populatedStore(ctx context.Context, t *testing.T) *fakeEventStore {
	t.Helper()
	store := &fakeEventStore{}
	t1 := triple("http://example.org/task1", "http://example.org/status", "pending")
	store.Append(ctx, eventlog.NewEvent(eventlog.TripleAdded, "", eventlog.TripleAddedPayload(t1)))
	t2 := triple("http://example.org/task1", "http://example.org/status", "active")
	store.Append(ctx, eventlog.NewEvent(eventlog.TripleAdded, "", eventlog.TripleAddedPayload(t2)))
	store.Append(ctx, eventlog.NewEvent(eventlog.TripleRemoved, "", eventlog.TripleRemovedPayload(t1)))
	return store
}

func TestStateAtReconstructsHistoricalState(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	atOne, err := view.StateAt(ctx, 1)
	if err != nil {
		t.Fatalf("StateAt(1): %v", err)
	}
	if len(atOne) != 1 {
		t.Fatalf("expected 1 triple at sequence 1, got %d", len(atOne))
	}

	atTwo, err := view.StateAt(ctx, 2)
	if err != nil {
		t.Fatalf("StateAt(2): %v", err)
	}
	if len(atTwo) != 2 {
		t.Fatalf("expected 2 triples at sequence 2, got %d", len(atTwo))
	}

	atThree, err := view.StateAt(ctx, 3)
	if err != nil {
		t.Fatalf("StateAt(3): %v", err)
	}
	if len(atThree) != 1 {
		t.Fatalf("expected 1 triple at sequence 3 (first removed), got %d", len(atThree))
	}
}

func TestStateAtFullLog(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	all, err := view.StateAt(ctx, -1)
	if err != nil {
		t.Fatalf("StateAt(-1): %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 surviving triple, got %d", len(all))
	}
}

func TestQueryAt(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	bindings, err := view.QueryAt(ctx, 2, `SELECT ?s WHERE { ?s <http://example.org/status> "active" . }`)
	if err != nil {
		t.Fatalf("QueryAt: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(bindings))
	}
}

func TestHistoryReturnsAllEvents(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	events, err := view.History(ctx)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
}

func TestDiffRange(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	added, removed, err := view.DiffRange(ctx, 0, 3)
	if err != nil {
		t.Fatalf("DiffRange: %v", err)
	}
	if len(added) != 2 {
		t.Errorf("expected 2 added triples, got %d", len(added))
	}
	if len(removed) != 1 {
		t.Errorf("expected 1 removed triple, got %d", len(removed))
	}
}

func TestDiffRangeExclusiveFrom(t *testing.T) {
	ctx := context.Background()
	store := populatedStore(ctx, t)
	view := NewView(store, "")

	added, removed, err := view.DiffRange(ctx, 1, 2)
	if err != nil {
		t.Fatalf("DiffRange: %v", err)
	}
	if len(added) != 1 {
		t.Errorf("expected 1 added triple strictly after sequence 1, got %d", len(added))
	}
	if len(removed) != 0 {
		t.Errorf("expected 0 removed triples in this range, got %d", len(removed))
	}
}

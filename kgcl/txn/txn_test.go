package txn

import (
	"context"
	"errors"
	"testing"

	"eve.evalgo.org/kgcl/rdf"
	"eve.evalgo.org/kgcl/store/memstore"
)

func TestBeginCapturesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("a"), Predicate: rdf.IRI("p"), Object: rdf.IRI("b")}})
	m := New(s)

	tx, err := m.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if tx.State != Active {
		t.Errorf("state = %v, want Active", tx.State)
	}
	if tx.Snapshot.TripleCount != 1 {
		t.Errorf("snapshot triple count = %d, want 1", tx.Snapshot.TripleCount)
	}
}

func TestCommitMarksCommitted(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	tx, err := m.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	result, err := m.Commit(ctx, tx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.State != Committed {
		t.Errorf("state = %v, want Committed", result.State)
	}
	if tx.State != Committed {
		t.Errorf("transaction state = %v, want Committed", tx.State)
	}
}

func TestCommitTwiceFails(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	tx, _ := m.Begin(ctx)
	if _, err := m.Commit(ctx, tx); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	if _, err := m.Commit(ctx, tx); err == nil {
		t.Error("expected error committing an already-committed transaction")
	}
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("a"), Predicate: rdf.IRI("p"), Object: rdf.IRI("b")}})
	m := New(s)

	tx, err := m.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("c"), Predicate: rdf.IRI("p"), Object: rdf.IRI("d")}})
	count, _ := s.TripleCount(ctx)
	if count != 2 {
		t.Fatalf("expected 2 triples before rollback, got %d", count)
	}

	result, err := m.Rollback(ctx, tx)
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if result.State != RolledBack {
		t.Errorf("state = %v, want RolledBack", result.State)
	}
	count, _ = s.TripleCount(ctx)
	if count != 1 {
		t.Errorf("expected 1 triple after rollback, got %d", count)
	}
}

func TestBeginWhileActiveFails(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	tx, err := m.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := m.Begin(ctx); err == nil {
		t.Error("expected error beginning a second transaction while one is active")
	}

	if _, err := m.Rollback(ctx, tx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if _, err := m.Begin(ctx); err != nil {
		t.Errorf("Begin after prior transaction ended: %v", err)
	}
}

func TestRollbackOnNonActiveFails(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	tx, _ := m.Begin(ctx)
	if _, err := m.Commit(ctx, tx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := m.Rollback(ctx, tx); err == nil {
		t.Error("expected error rolling back a committed transaction")
	}
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	result, err := m.WithTransaction(ctx, func(tx *Transaction) error {
		_, err := s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("a"), Predicate: rdf.IRI("p"), Object: rdf.IRI("b")}})
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}
	if result.State != Committed {
		t.Errorf("state = %v, want Committed", result.State)
	}
	count, _ := s.TripleCount(ctx)
	if count != 1 {
		t.Errorf("expected mutation to survive commit, got %d triples", count)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)
	wantErr := errors.New("boom")

	_, err := m.WithTransaction(ctx, func(tx *Transaction) error {
		s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("a"), Predicate: rdf.IRI("p"), Object: rdf.IRI("b")}})
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	count, _ := s.TripleCount(ctx)
	if count != 0 {
		t.Errorf("expected mutation to be rolled back, got %d triples", count)
	}
}

func TestCreateSnapshotIndependentOfLaterMutation(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	m := New(s)

	snap, err := m.CreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("CreateSnapshot: %v", err)
	}
	s.LoadRaw(ctx, []rdf.Triple{{Subject: rdf.IRI("a"), Predicate: rdf.IRI("p"), Object: rdf.IRI("b")}})
	if snap.TripleCount != 0 {
		t.Errorf("snapshot should be unaffected by later mutation, got count %d", snap.TripleCount)
	}
}

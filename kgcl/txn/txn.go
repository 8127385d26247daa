// Package txn implements the Transaction Manager port (C6):
// snapshot-based begin/commit/rollback around a tick or a batch of
// mutations. Grounded on
// _examples/original_source/src/kgcl/hybrid/ports/transaction_port.py's
// TransactionState/Transaction/Snapshot/TransactionManager Protocol,
// reimplemented with a SnapshotStore port (rather than a baked-in
// backend) so boltsnapshot and couchsnapshot can both satisfy it, and
// a WithTransaction helper standing in for Python's
// transaction_context contextmanager.
package txn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/rdf"

	"github.com/google/uuid"
)

// State mirrors transaction_port.py's TransactionState enum.
type State int

const (
	Pending State = iota
	Active
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Active:
		return "ACTIVE"
	case Committed:
		return "COMMITTED"
	case RolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is an immutable capture of store state at a point in time.
type Snapshot struct {
	SnapshotID  string
	Triples     []rdf.Triple
	TripleCount int
	CreatedAt   time.Time
}

// Operation records one logged action inside a transaction, for
// diagnostics and for replaying onto a SnapshotStore-backed restore.
type Operation struct {
	Kind        string // "mutation", "tick", "validation"
	Description string
	At          time.Time
}

// Transaction tracks the lifecycle of one begin/commit-or-rollback
// span.
type Transaction struct {
	ID         string
	State      State
	Snapshot   Snapshot
	Operations []Operation
	StartedAt  time.Time
	EndedAt    time.Time
}

func (t *Transaction) logOperation(kind, description string) {
	t.Operations = append(t.Operations, Operation{Kind: kind, Description: description, At: time.Now()})
}

// Result reports the outcome of Commit or Rollback.
type Result struct {
	TransactionID  string
	State          State
	OperationCount int
	Error          string
}

// SnapshotStore is the minimal surface a backing store must expose for
// the transaction manager to snapshot and restore it. memstore.Store,
// boltsnapshot, and couchsnapshot all implement it, at different
// durability tiers.
type SnapshotStore interface {
	AllTriples(ctx context.Context) ([]rdf.Triple, error)
	ReplaceAll(ctx context.Context, triples []rdf.Triple) error
}

// Manager implements begin/commit/rollback over a SnapshotStore,
// keeping one in-flight transaction's snapshot in memory (or, via a
// SnapshotPersister, durably) so Rollback can restore prior state
// exactly.
//
// Persister is optional: a nil Persister keeps snapshots only for the
// lifetime of the Transaction value, matching an in-process,
// crash-unsafe default; supplying one (boltsnapshot, couchsnapshot)
// makes snapshots durable across process restarts.
type Manager struct {
	mu        sync.Mutex
	store     SnapshotStore
	Persister SnapshotPersister
	active    map[string]*Transaction
}

// SnapshotPersister durably stores and retrieves Snapshots keyed by
// SnapshotID. Implemented by boltsnapshot and couchsnapshot.
type SnapshotPersister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, snapshotID string) (Snapshot, error)
}

// New constructs a Manager over the given store.
func New(store SnapshotStore) *Manager {
	return &Manager{store: store, active: make(map[string]*Transaction)}
}

// Begin opens a new transaction, capturing a snapshot of current store
// state. At most one transaction may be ACTIVE per Manager instance;
// beginning a second one fails with *errs.TransactionError.
func (m *Manager) Begin(ctx context.Context) (*Transaction, error) {
	m.mu.Lock()
	if active := m.activeTransactionLocked(); active != nil {
		m.mu.Unlock()
		return nil, &errs.TransactionError{TransactionID: active.ID, Reason: "a transaction is already active"}
	}
	m.mu.Unlock()

	snap, err := m.CreateSnapshot(ctx)
	if err != nil {
		return nil, &errs.TransactionError{TransactionID: "", Reason: fmt.Sprintf("begin: snapshot failed: %v", err)}
	}
	t := &Transaction{
		ID:        uuid.NewString(),
		State:     Active,
		Snapshot:  snap,
		StartedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if active := m.activeTransactionLocked(); active != nil {
		return nil, &errs.TransactionError{TransactionID: active.ID, Reason: "a transaction is already active"}
	}
	m.active[t.ID] = t
	return t, nil
}

// activeTransactionLocked returns the ACTIVE transaction, if any. Callers
// must hold m.mu.
func (m *Manager) activeTransactionLocked() *Transaction {
	for _, t := range m.active {
		if t.State == Active {
			return t
		}
	}
	return nil
}

// CreateSnapshot captures current store state without opening a
// transaction.
func (m *Manager) CreateSnapshot(ctx context.Context) (Snapshot, error) {
	triples, err := m.store.AllTriples(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	cp := make([]rdf.Triple, len(triples))
	copy(cp, triples)
	snap := Snapshot{
		SnapshotID:  uuid.NewString(),
		Triples:     cp,
		TripleCount: len(cp),
		CreatedAt:   time.Now(),
	}
	if m.Persister != nil {
		if err := m.Persister.Save(ctx, snap); err != nil {
			return Snapshot{}, err
		}
	}
	return snap, nil
}

// RestoreSnapshot replaces current store state with the given
// snapshot's triples.
func (m *Manager) RestoreSnapshot(ctx context.Context, snap Snapshot) error {
	return m.store.ReplaceAll(ctx, snap.Triples)
}

// Commit finalizes a transaction, discarding its snapshot.
func (m *Manager) Commit(ctx context.Context, t *Transaction) (Result, error) {
	if t.State != Active {
		err := &errs.TransactionError{TransactionID: t.ID, Reason: fmt.Sprintf("cannot commit transaction in state %s", t.State)}
		return Result{TransactionID: t.ID, State: t.State, Error: err.Error()}, err
	}
	t.State = Committed
	t.EndedAt = time.Now()
	m.mu.Lock()
	delete(m.active, t.ID)
	m.mu.Unlock()
	return Result{TransactionID: t.ID, State: Committed, OperationCount: len(t.Operations)}, nil
}

// Rollback restores the transaction's opening snapshot and marks it
// rolled back.
func (m *Manager) Rollback(ctx context.Context, t *Transaction) (Result, error) {
	if t.State != Active {
		err := &errs.TransactionError{TransactionID: t.ID, Reason: fmt.Sprintf("cannot roll back transaction in state %s", t.State)}
		return Result{TransactionID: t.ID, State: t.State, Error: err.Error()}, err
	}
	if err := m.RestoreSnapshot(ctx, t.Snapshot); err != nil {
		terr := &errs.TransactionError{TransactionID: t.ID, Reason: fmt.Sprintf("rollback restore failed: %v", err)}
		return Result{TransactionID: t.ID, State: t.State, Error: terr.Error()}, terr
	}
	t.State = RolledBack
	t.EndedAt = time.Now()
	m.mu.Lock()
	delete(m.active, t.ID)
	m.mu.Unlock()
	return Result{TransactionID: t.ID, State: RolledBack, OperationCount: len(t.Operations)}, nil
}

// WithTransaction runs fn inside a begin/commit-or-rollback span,
// standing in for transaction_port.py's transaction_context
// contextmanager: fn's error triggers Rollback and is returned
// unwrapped; otherwise the transaction is committed.
func (m *Manager) WithTransaction(ctx context.Context, fn func(t *Transaction) error) (Result, error) {
	t, err := m.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := fn(t); err != nil {
		t.logOperation("error", err.Error())
		if _, rerr := m.Rollback(ctx, t); rerr != nil {
			return Result{}, rerr
		}
		return Result{TransactionID: t.ID, State: RolledBack, OperationCount: len(t.Operations)}, err
	}
	return m.Commit(ctx, t)
}

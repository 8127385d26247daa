// Package pgeventlog is the durable eventlog.Store adapter backed by
// PostgreSQL, grounded directly on
// semantic/runtime/event_store.go's EventStore: the workflow_events
// table DDL (BIGSERIAL id, JSONB payload, indexed columns),
// SaveEvent/GetEventsByWorkflow/GetEventsByType/CreateTables, renamed
// from workflow/action scoping to this engine's graph_id scoping and
// TICK_*/TRIPLE_*/TRANSACTION_*/VALIDATION_FAILURE/STATUS_CHANGE
// taxonomy, and using the sequence column (not created_at) as the
// authoritative total order Replay/StateAt depend on.
package pgeventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"eve.evalgo.org/db"
	"eve.evalgo.org/kgcl/eventlog"
	"eve.evalgo.org/kgcl/rdf"
)

// Store is a Postgres-backed eventlog.Store.
type Store struct {
	pg *db.PostgresDB
}

// New wraps an already-connected PostgresDB.
func New(pg *db.PostgresDB) *Store {
	return &Store{pg: pg}
}

// CreateTables creates the kgcl_events table and its indices if they
// don't already exist.
func (s *Store) CreateTables(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS kgcl_events (
		sequence BIGSERIAL PRIMARY KEY,
		event_id VARCHAR(255) NOT NULL UNIQUE,
		event_type VARCHAR(64) NOT NULL,
		graph_id VARCHAR(255),
		payload JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_kgcl_events_graph_id ON kgcl_events(graph_id);
	CREATE INDEX IF NOT EXISTS idx_kgcl_events_event_type ON kgcl_events(event_type);
	`
	if err := s.pg.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("pgeventlog: create tables: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, e eventlog.Event) (eventlog.Event, error) {
	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return eventlog.Event{}, fmt.Errorf("pgeventlog: marshal payload: %w", err)
	}

	row := s.pg.QueryRow(ctx, `
		INSERT INTO kgcl_events (event_id, event_type, graph_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING sequence
	`, e.EventID, string(e.EventType), e.GraphID, payloadJSON, e.Timestamp)

	if err := row.Scan(&e.Sequence); err != nil {
		return eventlog.Event{}, fmt.Errorf("pgeventlog: insert event: %w", err)
	}
	return e, nil
}

func (s *Store) Replay(ctx context.Context, graphID string) ([]eventlog.Event, error) {
	query := `SELECT sequence, event_id, event_type, graph_id, payload, created_at
		FROM kgcl_events`
	args := []interface{}{}
	if graphID != "" {
		query += ` WHERE graph_id = $1`
		args = append(args, graphID)
	}
	query += ` ORDER BY sequence ASC`

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgeventlog: replay: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ByType(ctx context.Context, eventType eventlog.Type, limit, offset int) ([]eventlog.Event, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT sequence, event_id, event_type, graph_id, payload, created_at
		FROM kgcl_events
		WHERE event_type = $1
		ORDER BY sequence ASC
		LIMIT $2 OFFSET $3
	`, string(eventType), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgeventlog: by type: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) StateAt(ctx context.Context, graphID string, seq int64) ([]rdf.Triple, error) {
	events, err := s.Replay(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return eventlog.Replay(events, seq), nil
}

// rowScanner is the subset of pgx.Rows Scan/Next/Err this file needs;
// declared so it can be satisfied by both pgx.Rows and a fake in
// tests.
type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanEvents(rows rowScanner) ([]eventlog.Event, error) {
	var out []eventlog.Event
	for rows.Next() {
		var e eventlog.Event
		var eventType, graphID string
		var payloadJSON []byte
		if err := rows.Scan(&e.Sequence, &e.EventID, &eventType, &graphID, &payloadJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("pgeventlog: scan: %w", err)
		}
		e.EventType = eventlog.Type(eventType)
		e.GraphID = graphID
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("pgeventlog: unmarshal payload: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

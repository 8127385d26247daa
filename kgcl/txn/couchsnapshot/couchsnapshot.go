// Package couchsnapshot persists txn.Snapshot values as CouchDB
// documents, adapted from db/couchdb.go's
// kivik.New/client.DB/db.Put/db.Get idiom and its _rev-based document
// versioning. Intended for multi-node deployments sharing one
// snapshot store across engine replicas.
package couchsnapshot

import (
	"context"
	"fmt"

	"eve.evalgo.org/kgcl/txn"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

// doc is the CouchDB document shape for a persisted snapshot; Rev is
// populated by kivik on read and required on update.
type doc struct {
	ID   string       `json:"_id"`
	Rev  string       `json:"_rev,omitempty"`
	Snap txn.Snapshot `json:"snapshot"`
}

// Store persists snapshots as CouchDB documents, implementing
// txn.SnapshotPersister.
type Store struct {
	client *kivik.Client
	db     *kivik.DB
}

// Open connects to url and ensures dbName exists, creating it if
// necessary.
func Open(ctx context.Context, url, dbName string) (*Store, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("couchsnapshot: connect %s: %w", url, err)
	}
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("couchsnapshot: check db %s: %w", dbName, err)
	}
	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("couchsnapshot: create db %s: %w", dbName, err)
		}
	}
	return &Store{client: client, db: client.DB(dbName)}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Save(ctx context.Context, snap txn.Snapshot) error {
	d := doc{ID: snap.SnapshotID, Snap: snap}
	if existing, err := s.fetch(ctx, snap.SnapshotID); err == nil {
		d.Rev = existing.Rev
	}
	_, err := s.db.Put(ctx, d.ID, d)
	if err != nil {
		return fmt.Errorf("couchsnapshot: put %s: %w", snap.SnapshotID, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, snapshotID string) (txn.Snapshot, error) {
	d, err := s.fetch(ctx, snapshotID)
	if err != nil {
		return txn.Snapshot{}, err
	}
	return d.Snap, nil
}

func (s *Store) fetch(ctx context.Context, id string) (doc, error) {
	var d doc
	row := s.db.Get(ctx, id)
	if err := row.ScanDoc(&d); err != nil {
		return doc{}, fmt.Errorf("couchsnapshot: get %s: %w", id, err)
	}
	return d, nil
}

// Package boltsnapshot persists txn.Snapshot values to a local bbolt
// database, adapted from db/bolt/bolt.go's Open/PutJSON/GetJSON
// bucket idiom. Intended for single-node durable deployments where
// snapshots must survive a process restart.
package boltsnapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eve.evalgo.org/kgcl/txn"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "kgcl_snapshots"

// Store persists snapshots to a bbolt file, implementing
// txn.SnapshotPersister.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the bbolt-backed snapshot store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltsnapshot: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("boltsnapshot: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(ctx context.Context, snap txn.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("boltsnapshot: marshal %s: %w", snap.SnapshotID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put([]byte(snap.SnapshotID), data)
	})
}

func (s *Store) Load(ctx context.Context, snapshotID string) (txn.Snapshot, error) {
	var snap txn.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		data := b.Get([]byte(snapshotID))
		if data == nil {
			return fmt.Errorf("boltsnapshot: snapshot not found: %s", snapshotID)
		}
		return json.Unmarshal(data, &snap)
	})
	return snap, err
}

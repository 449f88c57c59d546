package adapters

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

const pendingBucket = "pending_events"

// BoltStorageAdapter persists pending events in a bbolt database, one key per
// event in enqueue order.
type BoltStorageAdapter struct {
	db *bolt.DB
}

// Ensure BoltStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*BoltStorageAdapter)(nil)

// OpenBoltStorageAdapter opens (or creates) the database at path.
func OpenBoltStorageAdapter(path string) (*BoltStorageAdapter, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(pendingBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &BoltStorageAdapter{db: db}, nil
}

// Save replaces the bucket contents with events.
func (b *BoltStorageAdapter) Save(events []Event) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(pendingBucket)); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(pendingBucket))
		if err != nil {
			return err
		}
		for i, event := range events {
			data, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("marshal event %q: %w", event.Name, err)
			}
			if err := bucket.Put(sequenceKey(uint64(i)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the persisted events in the order they were saved.
func (b *BoltStorageAdapter) Load() ([]Event, error) {
	events := []Event{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pendingBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				return fmt.Errorf("decode pending event: %w", err)
			}
			events = append(events, event)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Clear drops every persisted event.
func (b *BoltStorageAdapter) Clear() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(pendingBucket)); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(pendingBucket))
		return err
	})
}

// Close releases the database file lock.
func (b *BoltStorageAdapter) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// sequenceKey encodes i big-endian so bbolt's byte ordering matches insertion order.
func sequenceKey(i uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return buf
}

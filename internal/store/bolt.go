package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("pos")

// BoltBridge persists collections in a single-file bbolt database.
type BoltBridge struct {
	db *bolt.DB
}

// Ensure BoltBridge implements the bridge interface
var _ Bridge = (*BoltBridge)(nil)

// OpenBolt opens (creating if needed) the database file at path.
func OpenBolt(path string) (*BoltBridge, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltBridge{db: db}, nil
}

// Load retrieves the value stored under key.
// Returns ErrKeyNotFound if the key has never been saved.
func (b *BoltBridge) Load(key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// v is only valid inside the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes the value under key.
func (b *BoltBridge) Save(key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
}

// SaveAll writes every entry inside one write transaction; either all
// entries become durable or none do.
func (b *BoltBridge) SaveAll(entries map[string][]byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		for key, data := range entries {
			if err := bkt.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the underlying database file.
func (b *BoltBridge) Close() error {
	return b.db.Close()
}

// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Each catalog gets its own top-level bucket holding a "usage" sub-bucket with the
// JSON-serialized statistics snapshot. Writes are transactional; a crash mid-write
// cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corey/rfcguide/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketUsage = []byte("usage")
	keyStats    = []byte("stats")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
// Another process holding the file lock makes this fail after one second
// with bolt's timeout error.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// SaveUsage persists the full usage snapshot for a catalog.
func (s *Store) SaveUsage(catalogID string, stats *ports.UsageStats) error {
	if stats == nil {
		return fmt.Errorf("nil usage stats")
	}
	if catalogID == "" {
		return fmt.Errorf("empty catalog id")
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal usage: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		cat, err := tx.CreateBucketIfNotExists([]byte(catalogID))
		if err != nil {
			return err
		}
		ub, err := cat.CreateBucketIfNotExists(bucketUsage)
		if err != nil {
			return err
		}
		return ub.Put(keyStats, data)
	})
}

// LoadUsage retrieves the usage snapshot for a catalog.
// Returns nil, nil if nothing has been stored yet.
func (s *Store) LoadUsage(catalogID string) (*ports.UsageStats, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		cat := tx.Bucket([]byte(catalogID))
		if cat == nil {
			return nil
		}
		ub := cat.Bucket(bucketUsage)
		if ub == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := ub.Get(keyStats); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var stats ports.UsageStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal usage: %w", err)
	}
	if stats.Hits == nil {
		stats.Hits = make(map[string]uint32)
	}
	if stats.Misses == nil {
		stats.Misses = make(map[string]uint32)
	}
	return &stats, nil
}

// DeleteUsage removes all stored usage for a catalog.
// Idempotent: deleting a nonexistent catalog is not an error.
func (s *Store) DeleteUsage(catalogID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(catalogID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// CatalogIDs lists every catalog with stored data, in key order.
func (s *Store) CatalogIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			ids = append(ids, string(name))
			return nil
		})
	})
	return ids, err
}

// Package boltstore provides a bbolt-backed implementation of the
// cacheaside Store contract, with values encoded as JSON.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/leonardcser/sidecache/internal/cacheaside"
)

type Options struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
}

// Store is a persistent keyed data source. It is safe for concurrent use
// by multiple goroutines.
type Store[V any] struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes or opens a Store at the given path.
func Open[V any](path string, opts Options) (*Store[V], error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte("store")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store[V]{db: db, bucket: bucket}, nil
}

// Close closes the underlying database.
func (s *Store[V]) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Find returns the stored value for key, or cacheaside.ErrNotFound.
func (s *Store[V]) Find(ctx context.Context, key string) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, fmt.Errorf("boltstore: %q: %w", key, cacheaside.ErrNotFound)
	}

	var out V
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("boltstore: decode %q: %w", key, err)
	}
	return out, nil
}

// Save persists value under key and returns it as recorded.
func (s *Store[V]) Save(ctx context.Context, key string, value V) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("boltstore: encode %q: %w", key, err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), raw)
	}); err != nil {
		return zero, err
	}
	return value, nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store[V]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

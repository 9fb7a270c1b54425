// SPDX-License-Identifier: BSD-3-Clause

package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"go.etcd.io/bbolt"
)

// Store is a thin bucketed key-value wrapper over a bbolt database file.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes value under key in bucket, creating bucket if needed.
func (s *Store) Put(bucket, key, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

// Get reads the value for key in bucket. It returns ErrNotFound if the
// bucket or the key does not exist.
func (s *Store) Get(bucket, key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(key)
		if v == nil {
			return ErrNotFound
		}
		out = append(out, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes key from bucket. It is a no-op if the key or bucket is
// already absent.
func (s *Store) Delete(bucket, key []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
}

// ForEach iterates every key/value pair in bucket. It is a no-op if the
// bucket does not exist.
func (s *Store) ForEach(bucket []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(fn)
	})
}

// PutFloat32 persists a big-endian IEEE-754 float32, the on-disk shape the
// PWM actuator channel's set-points use.
func (s *Store) PutFloat32(bucket, key []byte, value float32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(value))
	return s.Put(bucket, key, buf[:])
}

// GetFloat32 reads a big-endian IEEE-754 float32 previously written with
// PutFloat32.
func (s *Store) GetFloat32(bucket, key []byte) (float32, error) {
	v, err := s.Get(bucket, key)
	if err != nil {
		return 0, err
	}
	if len(v) != 4 {
		return 0, fmt.Errorf("store: %s: malformed float32 value", key)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(v)), nil
}

// Package bolt stores keys inside a single BoltDB bucket.
package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const DefaultBucket = "shortlink"

// Open opens (creating if needed) the database file and the bucket.
func Open(path, bucket string) (*bolt.DB, error) {
	const op = "adapter.repository.bolt.Open"

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to create bucket: %w", op, err)
	}

	return db, nil
}

type KVRepository struct {
	db     *bolt.DB
	bucket []byte
}

func NewKVRepository(db *bolt.DB, bucket string) *KVRepository {
	return &KVRepository{db: db, bucket: []byte(bucket)}
}

func (r *KVRepository) Get(_ context.Context, key string) ([]byte, error) {
	const op = "adapter.repository.bolt.KVRepository.Get"

	var value []byte

	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return entity.ErrKeyNotFound
		}

		v := b.Get([]byte(key))
		if v == nil {
			return entity.ErrKeyNotFound
		}

		// v is only valid inside the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (r *KVRepository) Put(_ context.Context, key string, value []byte) error {
	const op = "adapter.repository.bolt.KVRepository.Put"

	err := r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(r.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%s: failed to put value: %w", op, err)
	}

	return nil
}

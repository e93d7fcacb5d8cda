package dictionary

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketWords = []byte("words")

// BoltStore keeps the dictionary in a bbolt database, one key per word in a
// single bucket with the time it was added as value. bbolt keeps keys sorted,
// so listings come back in order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Add stores words, skipping empty ones. It returns how many were new.
func (s *BoltStore) Add(words ...string) (int, error) {
	added := 0
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWords)
		for _, w := range words {
			if w == "" {
				continue
			}
			key := []byte(w)
			if b.Get(key) != nil {
				continue
			}
			if err := b.Put(key, stamp); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add words: %w", err)
	}
	return added, nil
}

// Remove deletes words. It returns how many were present.
func (s *BoltStore) Remove(words ...string) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWords)
		for _, w := range words {
			if w == "" {
				continue
			}
			key := []byte(w)
			if b.Get(key) == nil {
				continue
			}
			if err := b.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove words: %w", err)
	}
	return removed, nil
}

// Count returns the number of stored words.
func (s *BoltStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketWords).Stats().KeyN
		return nil
	})
	return n, err
}

// ListPatterns returns every stored word in byte order. The result is never
// nil.
func (s *BoltStore) ListPatterns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWords).ForEach(func(k, _ []byte) error {
			words = append(words, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	tokenKey      = []byte("token")
)

// BoltStore keeps the token in a bbolt file under a fixed bucket and key
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the session database at path
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	// The timeout keeps a second process from blocking forever on the file lock.
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load() (string, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(tokenKey)
		if len(v) == 0 {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		token = string(v)
		return nil
	})
	return token, err
}

func (s *BoltStore) Save(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		return b.Put(tokenKey, []byte(token))
	})
}

func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		return b.Delete(tokenKey)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrNotFound covers both unknown and expired tokens; callers cannot tell
// the two apart.
var ErrNotFound = errors.New("session not found")

// Store maps opaque session tokens to user ids with a time-to-live.
type Store interface {
	Put(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

const keyPrefix = "session/"

// BadgerStore persists sessions in BadgerDB. Expiry is enforced by badger's
// per-entry TTL, not by polling.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) a badger-backed store at path. An empty path opens
// an in-memory store, used by tests.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Put(_ context.Context, token string, userID int64, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+token), []byte(strconv.FormatInt(userID, 10))).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) Get(_ context.Context, token string) (int64, error) {
	var userID int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + token))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Delete removes a session. Deleting a token that was never stored, already
// deleted or expired returns ErrNotFound.
func (s *BadgerStore) Delete(_ context.Context, token string) error {
	key := []byte(keyPrefix + token)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// Alive reports whether the underlying database is still open.
func (s *BadgerStore) Alive() bool { return !s.db.IsClosed() }

func (s *BadgerStore) Close() error { return s.db.Close() }

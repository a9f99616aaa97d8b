// Package badgerrepo provides a BadgerDB-backed credentials.Repo so tokens
// and the cached profile survive process restarts.
package badgerrepo

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/pkg/errors"
)

var _ credentials.Repo = (*Repo)(nil)

// Config holds configuration for the badger-backed credential store.
type Config struct {
	// Path is the directory for the badger files. Ignored when InMemory is set.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes. Tokens are small and written
	// rarely, so durability wins over write latency.
	SyncWrites bool
}

// DefaultConfig returns the production configuration for the given data folder.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// Repo is a credentials.Repo backed by an embedded badger database.
type Repo struct {
	db *badger.DB
}

// New opens the badger database described by cfg.
func New(cfg Config) (*Repo, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "[badgerrepo.New] badger.Open")
	}
	return &Repo{db: db}, nil
}

// Get retrieves a value by key. A missing key is not an error.
func (r *Repo) Get(key string) (string, bool, error) {
	var value string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "[Repo.Get] db.View")
	}
	return value, true, nil
}

// Set overwrites the value for a key.
func (r *Repo) Set(key, value string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	return errors.Wrap(err, "[Repo.Set] db.Update")
}

// Delete removes a key. Deleting an absent key is a no-op.
func (r *Repo) Delete(key string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrap(err, "[Repo.Delete] db.Update")
}

// DeleteAll removes the given keys inside a single transaction, so a
// concurrent reader sees either all keys or none of them.
func (r *Repo) DeleteAll(keys ...string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "[Repo.DeleteAll] db.Update")
}

// Close closes the underlying database.
func (r *Repo) Close() error {
	return errors.Wrap(r.db.Close(), "[Repo.Close] db.Close")
}

// Package badger implements db.Store on an embedded BadgerDB, for
// single-node deployments that need persistence without a database server.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/openstall/marketd/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds open parameters for a Badger store.
type Config struct {
	// Path is the data directory. Empty with InMemory set runs fully
	// in memory.
	Path     string
	InMemory bool
}

// Store implements db.Store via BadgerDB.
type Store struct {
	badger *badgerdb.DB
}

// zapAdapter adapts zap to the badger.Logger interface.
type zapAdapter struct {
	log *zap.SugaredLogger
}

var _ badgerdb.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...interface{})   { a.log.Errorf(msg, args...) }
func (a *zapAdapter) Warningf(msg string, args ...interface{}) { a.log.Warnf(msg, args...) }
func (a *zapAdapter) Infof(msg string, args ...interface{})    { a.log.Debugf(msg, args...) }
func (a *zapAdapter) Debugf(msg string, args ...interface{})   { a.log.Debugf(msg, args...) }

// NewStore opens a Badger store, creating the data directory if needed.
func NewStore(cfg Config, log *zap.Logger) (*Store, error) {
	var opts badgerdb.Options
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		opts = badgerdb.DefaultOptions(cfg.Path)
	}
	opts.Logger = &zapAdapter{log: log.Sugar()}

	database, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{badger: database}, nil
}

// Ping verifies the database is open.
func (s *Store) Ping(context.Context) error {
	if s.badger.IsClosed() {
		return fmt.Errorf("badger is closed")
	}
	return nil
}

// Close shuts down the database.
func (s *Store) Close() {
	_ = s.badger.Close()
}

// WaitForReady returns once the database answers a Ping. Badger is ready
// as soon as it opens, so this only re-checks it was not closed.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.badger.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return value, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.badger.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	err := s.badger.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists reports whether a key is present.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	err := s.badger.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return true, nil
}

// List returns every pair under prefix in ascending key order, which is
// Badger's native iteration order.
func (s *Store) List(_ context.Context, prefix string) ([]db.KeyValue, error) {
	var pairs []db.KeyValue
	err := s.badger.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			pairs = append(pairs, db.KeyValue{Key: string(item.Key()), Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	return pairs, nil
}

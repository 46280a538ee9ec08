package db

import (
	"context"
	"time"
)

// Store is the database facade. Records are JSON blobs keyed under a
// per-kind prefix; List returns every pair under a prefix in ascending key
// order, which gives the repository layer a stable candidate order.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyValue is one stored pair returned by List.
type KeyValue struct {
	Key   string
	Value []byte
}

// KVStore provides key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]KeyValue, error)
}

// Package records persists catalog records as JSON documents in a db.Store
// and executes compiled predicates against them.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/openstall/marketd/internal/db"
	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/predicate"
)

// KeyPrefix namespaces every record key in the store.
const KeyPrefix = "marketd:"

// Collection stores one record kind under its own key prefix.
type Collection[T any] struct {
	store  db.Store
	schema *catalog.Schema[T]
}

// NewCollection creates a collection for the given kind's schema.
func NewCollection[T any](store db.Store, schema *catalog.Schema[T]) *Collection[T] {
	return &Collection[T]{store: store, schema: schema}
}

func (c *Collection[T]) key(id int64) string {
	return KeyPrefix + c.schema.Kind + ":" + strconv.FormatInt(id, 10)
}

// ID returns a record's identifier per the kind schema.
func (c *Collection[T]) ID(record T) int64 {
	return c.schema.ID(record)
}

// Put stores a record under its identifier.
func (c *Collection[T]) Put(ctx context.Context, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", c.schema.Kind, err)
	}
	return c.store.Set(ctx, c.key(c.schema.ID(record)), data)
}

// Get loads one record by identifier. Returns domain.ErrNotFound when the
// record does not exist.
func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	var record T
	data, err := c.store.Get(ctx, c.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return record, fmt.Errorf("%w: %s %d", domain.ErrNotFound, c.schema.Kind, id)
		}
		return record, err
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("unmarshal %s record: %w", c.schema.Kind, err)
	}
	return record, nil
}

// Delete removes one record by identifier.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	return c.store.Del(ctx, c.key(id))
}

// Find returns every record matching the predicate, in ascending ID order.
// The whole kind is scanned and the tree evaluated per record; all store
// drivers therefore answer a query identically.
func (c *Collection[T]) Find(ctx context.Context, tree predicate.Node) ([]T, error) {
	pairs, err := c.store.List(ctx, KeyPrefix+c.schema.Kind+":")
	if err != nil {
		return nil, err
	}

	var matches []T
	for _, pair := range pairs {
		var record T
		if err := json.Unmarshal(pair.Value, &record); err != nil {
			return nil, fmt.Errorf("unmarshal %s record at %s: %w", c.schema.Kind, pair.Key, err)
		}
		if predicate.Eval(tree, c.schema.Fields(record)) {
			matches = append(matches, record)
		}
	}

	// Key order is lexicographic, not numeric.
	sort.Slice(matches, func(i, j int) bool {
		return c.schema.ID(matches[i]) < c.schema.ID(matches[j])
	})
	return matches, nil
}

package search

import (
	"context"

	"github.com/openstall/marketd/internal/domain/search/predicate"
)

// Collection defines the storage contract for one record kind. Find
// executes a compiled predicate and returns the matches in ascending ID
// order.
type Collection[T any] interface {
	Find(ctx context.Context, tree predicate.Node) ([]T, error)
}

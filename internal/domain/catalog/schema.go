// Package catalog defines the record kinds served by the search API and the
// per-kind schemas that expose their fields, orderings and filters.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
)

// SortKey names one field of a composite ordering. FoldCase compares string
// fields case-insensitively.
type SortKey struct {
	Field    string
	FoldCase bool
}

// Schema describes one record kind: how to read its identifier and fields,
// which free-text fields a query searches, and which orderings a client may
// request.
type Schema[T any] struct {
	Kind string
	ID   func(T) int64

	Strings map[string]func(T) string
	Numbers map[string]func(T) int64
	Dates   map[string]func(T) time.Time
	Bools   map[string]func(T) bool
	IDSets  map[string]func(T) []int64

	// SearchFields are the string fields a free-text clause matches against.
	SearchFields []string

	// Orderings maps an orderBy name to the sort keys it expands to.
	// DefaultOrdering may be empty, meaning relevance order.
	Orderings       map[string][]SortKey
	DefaultOrdering string
}

// schemaFields adapts one record to the predicate.Fields interface.
type schemaFields[T any] struct {
	schema *Schema[T]
	record T
}

func (f schemaFields[T]) String(name string) (string, bool) {
	get, ok := f.schema.Strings[name]
	if !ok {
		return "", false
	}
	return get(f.record), true
}

func (f schemaFields[T]) Number(name string) (int64, bool) {
	get, ok := f.schema.Numbers[name]
	if !ok {
		return 0, false
	}
	return get(f.record), true
}

func (f schemaFields[T]) Date(name string) (time.Time, bool) {
	get, ok := f.schema.Dates[name]
	if !ok {
		return time.Time{}, false
	}
	return get(f.record), true
}

func (f schemaFields[T]) Bool(name string) (bool, bool) {
	get, ok := f.schema.Bools[name]
	if !ok {
		return false, false
	}
	return get(f.record), true
}

func (f schemaFields[T]) IDs(name string) ([]int64, bool) {
	get, ok := f.schema.IDSets[name]
	if !ok {
		return nil, false
	}
	return get(f.record), true
}

// Fields exposes a record's values for predicate evaluation.
func (s *Schema[T]) Fields(record T) predicate.Fields {
	return schemaFields[T]{schema: s, record: record}
}

// Compare builds a comparison function for the named ordering. An empty
// orderBy selects the schema default. Ties always break on ascending ID,
// which reverse does not flip.
func (s *Schema[T]) Compare(orderBy string, reverse bool) (func(a, b T) int, error) {
	if orderBy == "" {
		orderBy = s.DefaultOrdering
	}
	if orderBy == "" {
		return func(a, b T) int { return compareInt64(s.ID(a), s.ID(b)) }, nil
	}

	keys, ok := s.Orderings[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: invalid ordering field: %q", domain.ErrValidation, orderBy)
	}

	return func(a, b T) int {
		for _, key := range keys {
			if c := s.compareKey(key, a, b); c != 0 {
				if reverse {
					return -c
				}
				return c
			}
		}
		return compareInt64(s.ID(a), s.ID(b))
	}, nil
}

func (s *Schema[T]) compareKey(key SortKey, a, b T) int {
	if get, ok := s.Strings[key.Field]; ok {
		left, right := get(a), get(b)
		if key.FoldCase {
			left, right = strings.ToLower(left), strings.ToLower(right)
		}
		return strings.Compare(left, right)
	}
	if get, ok := s.Numbers[key.Field]; ok {
		return compareInt64(get(a), get(b))
	}
	if get, ok := s.Dates[key.Field]; ok {
		return get(a).Compare(get(b))
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

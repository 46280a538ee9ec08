// Package predicate models search filters as an expression tree that any
// storage driver can walk. Drivers evaluate the same tree over candidate
// records, so a query returns identical results regardless of the backend.
package predicate

import (
	"strings"
	"time"
)

// Fields exposes a record's searchable values by field name. The boolean
// result reports whether the record carries the named field.
type Fields interface {
	String(name string) (string, bool)
	Number(name string) (int64, bool)
	Date(name string) (time.Time, bool)
	Bool(name string) (bool, bool)
	IDs(name string) ([]int64, bool)
}

// Node is one vertex of a predicate tree.
type Node interface {
	isNode()
}

// True accepts every record.
type True struct{}

// Text matches a string field. Exact demands a case-insensitive full match,
// otherwise the value matches as a case-insensitive substring.
type Text struct {
	Field string
	Value string
	Exact bool
}

// Flag matches a boolean field against Want.
type Flag struct {
	Field string
	Want  bool
}

// In matches when a string field equals one of Values, case-insensitively.
type In struct {
	Field  string
	Values []string
}

// NumberRange matches a numeric field against an inclusive range. A nil
// bound is open.
type NumberRange struct {
	Field string
	Lower *int64
	Upper *int64
}

// DateRange matches a date field against an inclusive range. A nil bound
// is open.
type DateRange struct {
	Field string
	Lower *time.Time
	Upper *time.Time
}

// Keywords matches an ID-set field. With All set, every listed ID must be
// present; otherwise one is enough.
type Keywords struct {
	Field string
	IDs   []int64
	All   bool
}

// Not inverts its inner node.
type Not struct {
	Inner Node
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Nodes []Node
}

// Or matches when at least one child matches.
type Or struct {
	Nodes []Node
}

func (True) isNode()        {}
func (Text) isNode()        {}
func (Flag) isNode()        {}
func (In) isNode()          {}
func (NumberRange) isNode() {}
func (DateRange) isNode()   {}
func (Keywords) isNode()    {}
func (Not) isNode()         {}
func (And) isNode()         {}
func (Or) isNode()          {}

// Eval reports whether the record described by f satisfies the tree rooted
// at n. A node referencing a field the record does not carry never matches.
func Eval(n Node, f Fields) bool {
	switch node := n.(type) {
	case True:
		return true
	case Text:
		value, ok := f.String(node.Field)
		if !ok {
			return false
		}
		if node.Exact {
			return strings.EqualFold(value, node.Value)
		}
		return strings.Contains(strings.ToLower(value), strings.ToLower(node.Value))
	case Flag:
		value, ok := f.Bool(node.Field)
		return ok && value == node.Want
	case In:
		value, ok := f.String(node.Field)
		if !ok {
			return false
		}
		for _, want := range node.Values {
			if strings.EqualFold(value, want) {
				return true
			}
		}
		return false
	case NumberRange:
		value, ok := f.Number(node.Field)
		if !ok {
			return false
		}
		if node.Lower != nil && value < *node.Lower {
			return false
		}
		if node.Upper != nil && value > *node.Upper {
			return false
		}
		return true
	case DateRange:
		value, ok := f.Date(node.Field)
		if !ok {
			return false
		}
		if node.Lower != nil && value.Before(*node.Lower) {
			return false
		}
		if node.Upper != nil && value.After(*node.Upper) {
			return false
		}
		return true
	case Keywords:
		ids, ok := f.IDs(node.Field)
		if !ok {
			return false
		}
		have := make(map[int64]bool, len(ids))
		for _, id := range ids {
			have[id] = true
		}
		if node.All {
			for _, id := range node.IDs {
				if !have[id] {
					return false
				}
			}
			return len(node.IDs) > 0
		}
		for _, id := range node.IDs {
			if have[id] {
				return true
			}
		}
		return false
	case Not:
		return !Eval(node.Inner, f)
	case And:
		for _, child := range node.Nodes {
			if !Eval(child, f) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range node.Nodes {
			if Eval(child, f) {
				return true
			}
		}
		return false
	}
	return false
}
